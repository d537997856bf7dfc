// Package memory implements the in-process stores backing the loan approval workflow.
package memory

import (
	"context"
	"errors"
	"sync"

	"loanapproval/internal/domain"
)

var (
	ErrAlreadyPending = errors.New("request already pending")
	ErrNotFound       = errors.New("pending request not found")
)

// PendingRequestStore keeps at most one in-flight request per customer.
// All access goes through one mutex, so every operation is linearizable.
type PendingRequestStore struct {
	mu       sync.Mutex
	requests map[string]*domain.LoanRequest
}

// NewPendingRequestStore creates an empty store.
func NewPendingRequestStore() *PendingRequestStore {
	return &PendingRequestStore{
		requests: make(map[string]*domain.LoanRequest),
	}
}

// InsertIfAbsent stores req unless its customer already has a pending request.
func (s *PendingRequestStore) InsertIfAbsent(_ context.Context, req *domain.LoanRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.CustomerID]; ok {
		return ErrAlreadyPending
	}
	s.requests[req.CustomerID] = req
	return nil
}

// Get returns a copy of the pending request for customerID.
func (s *PendingRequestStore) Get(_ context.Context, customerID string) (*domain.LoanRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	return req.Clone(), nil
}

// Remove deletes the request for customerID. Removing an absent key is a no-op.
func (s *PendingRequestStore) Remove(_ context.Context, customerID string) {
	s.mu.Lock()
	delete(s.requests, customerID)
	s.mu.Unlock()
}

// Update runs fn against the live request for customerID while holding the store lock.
// When fn returns remove=true the request is deleted before the lock is released.
// fn must leave the request untouched when it returns an error.
func (s *PendingRequestStore) Update(_ context.Context, customerID string, fn func(req *domain.LoanRequest) (remove bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[customerID]
	if !ok {
		return ErrNotFound
	}

	remove, err := fn(req)
	if err != nil {
		return err
	}
	if remove {
		delete(s.requests, customerID)
	}
	return nil
}

// Len returns the number of pending requests.
func (s *PendingRequestStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
