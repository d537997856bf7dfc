// Package notification delivers manager and customer messages without blocking the workflow.
package notification

import (
	"context"
	"sync"
	"time"

	"loanapproval/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the outbound event.
type Kind string

const (
	KindApprovalRequested Kind = "LOAN_APPROVAL_REQUESTED"
	KindLoanApproved      Kind = "LOAN_APPROVED"
)

// Outcomes reported to the Recorder.
const (
	OutcomeQueued    = "queued"
	OutcomeDropped   = "dropped"
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Notifier is the outbound contract of the approval workflow. Calls return immediately;
// delivery happens later and its failure is never reported back.
type Notifier interface {
	NotifyApprover(ctx context.Context, n ApproverNotification)
	NotifyCustomer(ctx context.Context, n CustomerNotification)
}

// ApproverNotification asks a manager to review a customer's request.
type ApproverNotification struct {
	ApproverID string
	CustomerID string
	Amount     decimal.Decimal
}

// CustomerNotification tells a customer the requested amount was approved.
type CustomerNotification struct {
	CustomerID string
	Amount     decimal.Decimal
}

// Message is one queued delivery. Exactly one of Approver and Customer is set.
type Message struct {
	ID        uuid.UUID
	Kind      Kind
	Approver  *ApproverNotification
	Customer  *CustomerNotification
	CreatedAt time.Time
}

// Sender is a delivery backend.
type Sender interface {
	Type() string
	Send(ctx context.Context, msg *Message) error
}

// Recorder observes delivery outcomes.
type Recorder interface {
	ObserveNotification(kind, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveNotification(string, string) {}

// Dispatcher queues messages on a bounded channel drained by a fixed pool of workers.
// Enqueueing never blocks: a full queue drops the message.
type Dispatcher struct {
	sender   Sender
	queue    chan *Message
	workers  int
	timeout  time.Duration
	logger   logger.Logger
	recorder Recorder

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Start before use and Close on shutdown.
func NewDispatcher(sender Sender, queueSize, workers int, timeout time.Duration, log logger.Logger, rec Recorder) *Dispatcher {
	if rec == nil {
		rec = nopRecorder{}
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sender:   sender,
		queue:    make(chan *Message, queueSize),
		workers:  workers,
		timeout:  timeout,
		logger:   log,
		recorder: rec,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	d.logger.Info("Notification dispatcher started", map[string]interface{}{
		"sender":  d.sender.Type(),
		"workers": d.workers,
		"queue":   cap(d.queue),
	})
}

// Close stops accepting messages, drains what is queued and waits for the workers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("Notification dispatcher stopped", nil)
}

func (d *Dispatcher) NotifyApprover(_ context.Context, n ApproverNotification) {
	d.enqueue(&Message{
		ID:        uuid.New(),
		Kind:      KindApprovalRequested,
		Approver:  &n,
		CreatedAt: time.Now(),
	})
}

func (d *Dispatcher) NotifyCustomer(_ context.Context, n CustomerNotification) {
	d.enqueue(&Message{
		ID:        uuid.New(),
		Kind:      KindLoanApproved,
		Customer:  &n,
		CreatedAt: time.Now(),
	})
}

func (d *Dispatcher) enqueue(msg *Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(msg, "dispatcher closed")
		return
	}

	select {
	case d.queue <- msg:
		d.recorder.ObserveNotification(string(msg.Kind), OutcomeQueued)
	default:
		d.drop(msg, "queue full")
	}
}

func (d *Dispatcher) drop(msg *Message, reason string) {
	d.recorder.ObserveNotification(string(msg.Kind), OutcomeDropped)
	d.logger.Warn("Notification dropped", map[string]interface{}{
		"notification_id": msg.ID.String(),
		"type":            msg.Kind,
		"reason":          reason,
	})
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg *Message) {
	// Delivery is detached from the request that triggered it.
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.recorder.ObserveNotification(string(msg.Kind), OutcomeFailed)
		d.logger.Error("Notification delivery failed", map[string]interface{}{
			"notification_id": msg.ID.String(),
			"type":            msg.Kind,
			"sender":          d.sender.Type(),
			"error":           err.Error(),
		})
		return
	}
	d.recorder.ObserveNotification(string(msg.Kind), OutcomeDelivered)
}
