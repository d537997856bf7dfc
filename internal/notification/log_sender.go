package notification

import (
	"context"

	"loanapproval/pkg/logger"
)

// LogSender only records messages in the service log. Used when no notification host is configured.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Type() string { return "log" }

func (s *LogSender) Send(_ context.Context, msg *Message) error {
	fields := map[string]interface{}{
		"notification_id": msg.ID.String(),
		"type":            msg.Kind,
	}
	if msg.Approver != nil {
		fields["username"] = msg.Approver.ApproverID
		fields["customer_id"] = msg.Approver.CustomerID
		fields["amount"] = msg.Approver.Amount.String()
	}
	if msg.Customer != nil {
		fields["customer_id"] = msg.Customer.CustomerID
		fields["amount"] = msg.Customer.Amount.String()
	}
	s.logger.Info("Notification Sent", fields)
	return nil
}
