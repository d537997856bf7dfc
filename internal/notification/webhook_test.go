package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loanapproval/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path        string
	contentType string
	body        map[string]interface{}
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, chan capturedRequest) {
	t.Helper()
	reqs := make(chan capturedRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		reqs <- capturedRequest{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

func TestWebhookSender_ManagerPayload(t *testing.T) {
	srv, reqs := newCaptureServer(t, http.StatusOK)
	s := NewWebhookSender(srv.URL, "/managers", "/customers", time.Second, logger.NewNop())

	err := s.Send(context.Background(), &Message{
		ID:   uuid.New(),
		Kind: KindApprovalRequested,
		Approver: &ApproverNotification{
			ApproverID: "alice",
			CustomerID: "12-3456-789",
			Amount:     decimal.RequireFromString("1500.50"),
		},
	})
	require.NoError(t, err)

	got := <-reqs
	assert.Equal(t, "/managers", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "alice", got.body["username"])
	assert.Equal(t, "12-3456-789", got.body["customerId"])
	assert.Equal(t, 1500.5, got.body["amount"])
}

func TestWebhookSender_CustomerPayload(t *testing.T) {
	srv, reqs := newCaptureServer(t, http.StatusAccepted)
	s := NewWebhookSender(srv.URL, "/managers", "/customers", time.Second, logger.NewNop())

	err := s.Send(context.Background(), &Message{
		ID:       uuid.New(),
		Kind:     KindLoanApproved,
		Customer: &CustomerNotification{CustomerID: "12-3456-789", Amount: decimal.NewFromInt(200)},
	})
	require.NoError(t, err)

	got := <-reqs
	assert.Equal(t, "/customers", got.path)
	assert.Equal(t, "12-3456-789", got.body["customerId"])
	assert.Equal(t, float64(200), got.body["amount"])
	_, hasUsername := got.body["username"]
	assert.False(t, hasUsername)
}

func TestWebhookSender_Non2xxIsError(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusInternalServerError)
	s := NewWebhookSender(srv.URL, "/managers", "/customers", time.Second, logger.NewNop())

	err := s.Send(context.Background(), &Message{
		ID:       uuid.New(),
		Kind:     KindLoanApproved,
		Customer: &CustomerNotification{CustomerID: "12-3456-789", Amount: decimal.NewFromInt(1)},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWebhookSender_EmptyMessage(t *testing.T) {
	s := NewWebhookSender("http://127.0.0.1:1", "/managers", "/customers", time.Second, logger.NewNop())

	err := s.Send(context.Background(), &Message{ID: uuid.New()})

	assert.Error(t, err)
}
