package payment

import (
	"errors"
	"strings"
)

// Status is a payment status as stored in the `payments` table.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

var ErrInvalidStatus = errors.New("invalid payment status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed payment status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// Terminal indicates whether the payment has reached a final outcome.
func (status Status) Terminal() bool {
	return status == StatusCompleted || status == StatusFailed
}
