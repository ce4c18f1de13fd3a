package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type PaymentOutcome string

const (
	PaymentPaid   PaymentOutcome = "paid"
	PaymentUnpaid PaymentOutcome = "unpaid"
)

func ParsePaymentOutcome(raw string) (PaymentOutcome, error) {
	switch PaymentOutcome(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentPaid:
		return PaymentPaid, nil
	case PaymentUnpaid:
		return PaymentUnpaid, nil
	default:
		return "", fmt.Errorf("invalid payment status %q", raw)
	}
}

const (
	statusPendingText   = "pending"
	statusCompletedText = "completed-"
)

// Status is either Pending or Completed with a payment outcome. The zero
// value is Pending.
type Status struct {
	completed bool
	outcome   PaymentOutcome
}

var StatusPending = Status{}

func Completed(outcome PaymentOutcome) Status {
	return Status{completed: true, outcome: outcome}
}

func (s Status) IsCompleted() bool {
	return s.completed
}

func (s Status) Outcome() (PaymentOutcome, bool) {
	return s.outcome, s.completed
}

func (s Status) String() string {
	if !s.completed {
		return statusPendingText
	}
	return statusCompletedText + string(s.outcome)
}

// Advance applies an edit to the status. Without a payment outcome the
// status is kept; with one the ticket becomes Completed with that outcome.
// No path leads back to Pending.
func (s Status) Advance(payment *PaymentOutcome) Status {
	if payment == nil {
		return s
	}
	return Completed(*payment)
}

// CanTransition reports whether a stored status may be replaced by next.
func CanTransition(from Status, next Status) bool {
	if from.completed && !next.completed {
		return false
	}
	return true
}

// ParseStatus reads the wire form. An empty string is treated as pending so
// records written before the status field existed still load.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || raw == statusPendingText:
		return StatusPending, nil
	case strings.HasPrefix(raw, statusCompletedText):
		outcome, err := ParsePaymentOutcome(strings.TrimPrefix(raw, statusCompletedText))
		if err != nil {
			return Status{}, fmt.Errorf("invalid status %q", raw)
		}
		return Completed(outcome), nil
	default:
		return Status{}, fmt.Errorf("invalid status %q", raw)
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = StatusPending
		return nil
	}
	parsed, err := ParseStatus(*raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
