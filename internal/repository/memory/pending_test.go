package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"loanapproval/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(customerID string, approvers ...string) *domain.LoanRequest {
	return domain.NewLoanRequest(customerID, decimal.NewFromInt(100), approvers, time.Now())
}

func TestPendingRequestStore_InsertIfAbsent(t *testing.T) {
	store := NewPendingRequestStore()
	ctx := context.Background()

	require.NoError(t, store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "john")))
	err := store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "anna"))

	assert.ErrorIs(t, err, ErrAlreadyPending)
	got, err := store.Get(ctx, "AB-1234-XYZ")
	require.NoError(t, err)
	assert.Equal(t, []string{"john"}, got.Approvers())
}

func TestPendingRequestStore_InsertIfAbsentConcurrent(t *testing.T) {
	store := NewPendingRequestStore()
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "john")) == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	assert.Equal(t, 1, store.Len())
}

func TestPendingRequestStore_GetReturnsCopy(t *testing.T) {
	store := NewPendingRequestStore()
	ctx := context.Background()
	require.NoError(t, store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "john")))

	got, err := store.Get(ctx, "AB-1234-XYZ")
	require.NoError(t, err)
	got.Approve("john")

	again, err := store.Get(ctx, "AB-1234-XYZ")
	require.NoError(t, err)
	assert.False(t, again.Approvals["john"].Approved)
}

func TestPendingRequestStore_GetMissing(t *testing.T) {
	store := NewPendingRequestStore()

	_, err := store.Get(context.Background(), "AB-1234-XYZ")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingRequestStore_RemoveIsIdempotent(t *testing.T) {
	store := NewPendingRequestStore()
	ctx := context.Background()
	require.NoError(t, store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "john")))

	store.Remove(ctx, "AB-1234-XYZ")
	store.Remove(ctx, "AB-1234-XYZ")

	assert.Equal(t, 0, store.Len())
	assert.NoError(t, store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "john")))
}

func TestPendingRequestStore_Update(t *testing.T) {
	store := NewPendingRequestStore()
	ctx := context.Background()
	require.NoError(t, store.InsertIfAbsent(ctx, newRequest("AB-1234-XYZ", "john")))

	err := store.Update(ctx, "AB-1234-XYZ", func(req *domain.LoanRequest) (bool, error) {
		req.Approve("john")
		return false, nil
	})
	require.NoError(t, err)
	got, _ := store.Get(ctx, "AB-1234-XYZ")
	assert.True(t, got.Approvals["john"].Approved)

	boom := errors.New("boom")
	err = store.Update(ctx, "AB-1234-XYZ", func(req *domain.LoanRequest) (bool, error) {
		return true, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.Len())

	err = store.Update(ctx, "AB-1234-XYZ", func(req *domain.LoanRequest) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	err = store.Update(ctx, "AB-1234-XYZ", func(req *domain.LoanRequest) (bool, error) {
		t.Fatal("fn must not run for a missing request")
		return false, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
