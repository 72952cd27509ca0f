package ports

import "errors"

// Sentinel errors shared across repositories and services.
var (
	// ErrTripNotFound is returned when a referenced trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrPaymentNotFound is returned when no payment exists for a trip.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicatePayment is the unique-constraint signal on payments.trip_id.
	// A consumer that loses a concurrent-insert race receives it and must
	// treat the delivery as an idempotent no-op, not a failure.
	ErrDuplicatePayment = errors.New("payment already exists for trip")
)
