package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"loanapproval/pkg/logger"
)

// WebhookSender posts JSON payloads to the external manager and customer endpoints.
type WebhookSender struct {
	managersURL  string
	customersURL string
	httpClient   *http.Client
	logger       logger.Logger
}

// NewWebhookSender targets host+managersPath for approver messages and host+customersPath for customers.
func NewWebhookSender(host, managersPath, customersPath string, timeout time.Duration, log logger.Logger) *WebhookSender {
	return &WebhookSender{
		managersURL:  host + managersPath,
		customersURL: host + customersPath,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: log,
	}
}

func (s *WebhookSender) Type() string { return "webhook" }

type managerPayload struct {
	Username   string      `json:"username"`
	CustomerID string      `json:"customerId"`
	Amount     json.Number `json:"amount"`
}

type customerPayload struct {
	CustomerID string      `json:"customerId"`
	Amount     json.Number `json:"amount"`
}

func (s *WebhookSender) Send(ctx context.Context, msg *Message) error {
	var (
		target  string
		payload interface{}
	)
	switch {
	case msg.Approver != nil:
		target = s.managersURL
		payload = managerPayload{
			Username:   msg.Approver.ApproverID,
			CustomerID: msg.Approver.CustomerID,
			Amount:     json.Number(msg.Approver.Amount.String()),
		}
	case msg.Customer != nil:
		target = s.customersURL
		payload = customerPayload{
			CustomerID: msg.Customer.CustomerID,
			Amount:     json.Number(msg.Customer.Amount.String()),
		}
	default:
		return fmt.Errorf("notification %s has no payload", msg.ID)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-ID", msg.ID.String())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", target, resp.StatusCode, string(respBody))
	}

	s.logger.Info("Notification Sent", map[string]interface{}{
		"notification_id": msg.ID.String(),
		"type":            msg.Kind,
		"target":          target,
	})
	return nil
}
