// Package loan runs the multi-approver workflow over pending loan requests.
package loan

import (
	"context"
	"errors"
	"time"

	"loanapproval/internal/domain"
	"loanapproval/internal/notification"
	"loanapproval/internal/repository/memory"
	pkgerrors "loanapproval/pkg/errors"
	"loanapproval/pkg/logger"

	"github.com/shopspring/decimal"
)

// Approval outcomes reported to the Recorder.
const (
	OutcomeAccepted        = "accepted"
	OutcomeCompleted       = "completed"
	OutcomeUnknownApprover = "unknown_approver"
	OutcomeNotFound        = "not_found"
)

// PendingStore holds requests awaiting approval.
type PendingStore interface {
	InsertIfAbsent(ctx context.Context, req *domain.LoanRequest) error
	Get(ctx context.Context, customerID string) (*domain.LoanRequest, error)
	Update(ctx context.Context, customerID string, fn func(req *domain.LoanRequest) (bool, error)) error
	Len() int
}

// LogWriter archives completed requests.
type LogWriter interface {
	Append(ctx context.Context, entry domain.LoanRequestLog)
}

// Recorder observes workflow events.
type Recorder interface {
	RequestSubmitted()
	RequestDuplicate()
	ApprovalRecorded(outcome string)
	RequestCompleted()
	SetPending(n int)
}

type nopRecorder struct{}

func (nopRecorder) RequestSubmitted()       {}
func (nopRecorder) RequestDuplicate()       {}
func (nopRecorder) ApprovalRecorded(string) {}
func (nopRecorder) RequestCompleted()       {}
func (nopRecorder) SetPending(int)          {}

// IntakeRequest is one validated item of a submitted batch.
type IntakeRequest struct {
	CustomerID string
	Amount     decimal.Decimal
	Approvers  []string
}

type Service struct {
	pending  PendingStore
	logs     LogWriter
	notifier notification.Notifier
	logger   logger.Logger
	recorder Recorder
	now      func() time.Time
}

func NewService(pending PendingStore, logs LogWriter, notifier notification.Notifier, log logger.Logger, rec Recorder) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		pending:  pending,
		logs:     logs,
		notifier: notifier,
		logger:   log,
		recorder: rec,
		now:      time.Now,
	}
}

// SubmitBatch stores every request whose customer has nothing pending and asks each of its
// approvers for a decision. Items already pending are collected and reported together once
// the whole batch has been processed; accepted items are not rolled back.
func (s *Service) SubmitBatch(ctx context.Context, batch []IntakeRequest) error {
	var duplicates []string

	for _, item := range batch {
		req := domain.NewLoanRequest(item.CustomerID, item.Amount, item.Approvers, s.now())

		if err := s.pending.InsertIfAbsent(ctx, req); err != nil {
			if errors.Is(err, memory.ErrAlreadyPending) {
				duplicates = append(duplicates, item.CustomerID)
				s.recorder.RequestDuplicate()
				continue
			}
			return pkgerrors.Wrap(err, "failed to store loan request")
		}
		s.recorder.RequestSubmitted()

		for _, approverID := range req.Approvers() {
			s.notifier.NotifyApprover(ctx, notification.ApproverNotification{
				ApproverID: approverID,
				CustomerID: req.CustomerID,
				Amount:     req.Amount,
			})
		}

		s.logger.Info("Loan request submitted", map[string]interface{}{
			"customer_id": req.CustomerID,
			"amount":      req.Amount.String(),
			"approvers":   len(req.Approvals),
		})
	}
	s.recorder.SetPending(s.pending.Len())

	if len(duplicates) > 0 {
		s.logger.Warn("Rejected duplicate loan requests", map[string]interface{}{
			"customer_ids": duplicates,
		})
		return pkgerrors.DuplicateRequest(duplicates)
	}
	return nil
}

// RecordApproval flags approverID's sign-off on customerID's request. The approval that
// completes the quorum notifies the customer, archives the request and removes it, all
// while the store lock is held, so a request completes exactly once.
func (s *Service) RecordApproval(ctx context.Context, approverID, customerID string) error {
	var completed *domain.LoanRequest

	err := s.pending.Update(ctx, customerID, func(req *domain.LoanRequest) (bool, error) {
		if !req.Approve(approverID) {
			return false, pkgerrors.UnknownApprover(approverID, customerID)
		}
		if !req.FullyApproved() {
			return false, nil
		}

		s.notifier.NotifyCustomer(ctx, notification.CustomerNotification{
			CustomerID: req.CustomerID,
			Amount:     req.Amount,
		})
		s.logs.Append(ctx, domain.LoanRequestLog{
			Amount:      req.Amount,
			CompletedAt: s.now(),
		})
		completed = req
		return true, nil
	})

	switch {
	case errors.Is(err, memory.ErrNotFound):
		s.recorder.ApprovalRecorded(OutcomeNotFound)
		return pkgerrors.RequestNotFound(customerID)
	case errors.Is(err, pkgerrors.ErrUnknownApprover):
		s.recorder.ApprovalRecorded(OutcomeUnknownApprover)
		s.logger.Warn("Approval from unassigned manager", map[string]interface{}{
			"customer_id": customerID,
			"username":    approverID,
		})
		return err
	case err != nil:
		return pkgerrors.Wrap(err, "failed to record approval")
	}

	if completed == nil {
		s.recorder.ApprovalRecorded(OutcomeAccepted)
		s.logger.Debug("Approval recorded", map[string]interface{}{
			"customer_id": customerID,
			"username":    approverID,
		})
		return nil
	}

	s.recorder.ApprovalRecorded(OutcomeCompleted)
	s.recorder.RequestCompleted()
	s.recorder.SetPending(s.pending.Len())
	s.logger.Info("Loan request fully approved", map[string]interface{}{
		"customer_id": customerID,
		"amount":      completed.Amount.String(),
		"username":    approverID,
	})
	return nil
}

// Pending returns a snapshot of customerID's pending request.
func (s *Service) Pending(ctx context.Context, customerID string) (*domain.LoanRequest, error) {
	req, err := s.pending.Get(ctx, customerID)
	if errors.Is(err, memory.ErrNotFound) {
		return nil, pkgerrors.RequestNotFound(customerID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load loan request")
	}
	return req, nil
}
