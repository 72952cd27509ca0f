package trip

import (
	"errors"
	"strings"
)

// Status is a trip status as stored in the `trips` table.
type Status string

const (
	StatusRequested  Status = "REQUESTED"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var ErrInvalidStatus = errors.New("invalid trip status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed trip status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusRequested, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusRequested:
		return next == StatusAccepted || next == StatusCancelled

	case StatusAccepted:
		return next == StatusInProgress || next == StatusCancelled

	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled

	case StatusCompleted, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal indicates if the status is in a terminal state.
func (status Status) Terminal() bool {
	return status == StatusCompleted || status == StatusCancelled
}
