// Package domain holds the loan approval entities shared by the stores, the workflow and the API.
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ManagerApproval is one approver's sign-off flag. Identity is ApproverID alone.
type ManagerApproval struct {
	ApproverID string `json:"username"`
	Approved   bool   `json:"approved"`
}

// LoanRequest is a pending request awaiting every assigned approver.
type LoanRequest struct {
	CustomerID string
	Amount     decimal.Decimal
	// Approvals is keyed by approver identity, so repeated approvers collapse into one entry.
	Approvals map[string]ManagerApproval
	CreatedAt time.Time
}

// NewLoanRequest builds a request with every approver unapproved.
func NewLoanRequest(customerID string, amount decimal.Decimal, approvers []string, createdAt time.Time) *LoanRequest {
	approvals := make(map[string]ManagerApproval, len(approvers))
	for _, id := range approvers {
		approvals[id] = ManagerApproval{ApproverID: id}
	}
	return &LoanRequest{
		CustomerID: customerID,
		Amount:     amount,
		Approvals:  approvals,
		CreatedAt:  createdAt,
	}
}

// Approvers returns the distinct approver IDs in sorted order.
func (r *LoanRequest) Approvers() []string {
	ids := make([]string, 0, len(r.Approvals))
	for id := range r.Approvals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Approve flags approverID as approved. It reports false when approverID is not assigned.
func (r *LoanRequest) Approve(approverID string) bool {
	approval, ok := r.Approvals[approverID]
	if !ok {
		return false
	}
	approval.Approved = true
	r.Approvals[approverID] = approval
	return true
}

// FullyApproved reports whether every assigned approver has signed off.
func (r *LoanRequest) FullyApproved() bool {
	if len(r.Approvals) == 0 {
		return false
	}
	for _, approval := range r.Approvals {
		if !approval.Approved {
			return false
		}
	}
	return true
}

// Clone returns a deep copy safe to hand out of a store.
func (r *LoanRequest) Clone() *LoanRequest {
	approvals := make(map[string]ManagerApproval, len(r.Approvals))
	for id, approval := range r.Approvals {
		approvals[id] = approval
	}
	c := *r
	c.Approvals = approvals
	return &c
}

// LoanRequestLog archives a completed request. Immutable once appended.
type LoanRequestLog struct {
	Amount      decimal.Decimal
	CompletedAt time.Time
}

// Statistics is the aggregate over a window of logs. Amounts is nil when Count is zero.
type Statistics struct {
	Count   int
	Amounts *AmountSummary
}

// AmountSummary holds the amount aggregates; Avg is rounded half-up to two places.
type AmountSummary struct {
	Sum decimal.Decimal
	Avg decimal.Decimal
	Max decimal.Decimal
	Min decimal.Decimal
}
