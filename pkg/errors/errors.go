// Package errors provides the error kinds surfaced by the loan approval core.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags an Error with the client-facing category it belongs to.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindDuplicateRequest
	KindRequestNotFound
	KindUnknownApprover
	KindPeriodFormat
	KindPeriodOrder
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateRequest:
		return "duplicate_request"
	case KindRequestNotFound:
		return "request_not_found"
	case KindUnknownApprover:
		return "unknown_approver"
	case KindPeriodFormat:
		return "period_format"
	case KindPeriodOrder:
		return "period_order"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks. Matching is by kind only.
var (
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrDuplicateRequest = &Error{Kind: KindDuplicateRequest, Message: "request already pending"}
	ErrRequestNotFound  = &Error{Kind: KindRequestNotFound, Message: "pending request not found"}
	ErrUnknownApprover  = &Error{Kind: KindUnknownApprover, Message: "approver not assigned"}
	ErrPeriodFormat     = &Error{Kind: KindPeriodFormat, Message: "invalid period format"}
	ErrPeriodOrder      = &Error{Kind: KindPeriodOrder, Message: "period start after end"}
)

// Error carries the kind plus whatever context the failing operation had.
type Error struct {
	Kind    Kind
	Message string

	CustomerIDs []string // duplicate request
	CustomerID  string   // not found, unknown approver
	ApproverID  string   // unknown approver
	Value       string   // period format: offending text
	Format      string   // period format: expected layout
	Start       string   // period order
	End         string   // period order
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func DuplicateRequest(customerIDs []string) *Error {
	ids := append([]string(nil), customerIDs...)
	return &Error{
		Kind:        KindDuplicateRequest,
		Message:     fmt.Sprintf("There are still pending requests for customers: %s", strings.Join(ids, ",")),
		CustomerIDs: ids,
	}
}

func RequestNotFound(customerID string) *Error {
	return &Error{
		Kind:       KindRequestNotFound,
		Message:    fmt.Sprintf("There is no pending request for customer %s.", customerID),
		CustomerID: customerID,
	}
}

func UnknownApprover(approverID, customerID string) *Error {
	return &Error{
		Kind:       KindUnknownApprover,
		Message:    fmt.Sprintf("Manager %s is not among customer %s approvers.", approverID, customerID),
		CustomerID: customerID,
		ApproverID: approverID,
	}
}

func PeriodFormat(text, format string) *Error {
	return &Error{
		Kind:    KindPeriodFormat,
		Message: fmt.Sprintf("%s should match time format pattern '%s'", text, format),
		Value:   text,
		Format:  format,
	}
}

func PeriodOrder(start, end string) *Error {
	return &Error{
		Kind:    KindPeriodOrder,
		Message: fmt.Sprintf("Period start cannot be after period end. %s > %s", start, end),
		Start:   start,
		End:     end,
	}
}

// KindOf extracts the kind from err if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
