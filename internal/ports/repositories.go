package ports

import (
	"context"
	"time"

	"taxi-trips/internal/domain/payment"
	"taxi-trips/internal/domain/trip"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TripRepository defines the methods for managing trip data.
type TripRepository interface {
	CreateTrip(ctx context.Context, t *trip.Trip) error

	// GetByID returns ErrTripNotFound if the id is absent.
	GetByID(ctx context.Context, id int64) (*trip.Trip, error)

	// GetByIDForUpdate locks the row for the duration of the surrounding
	// transaction; lifecycle transitions read-modify-write through it.
	GetByIDForUpdate(ctx context.Context, id int64) (*trip.Trip, error)

	ListByUser(ctx context.Context, userID int64, limit int) ([]*trip.Trip, error)
	ListByDriver(ctx context.Context, driverID int64, limit int) ([]*trip.Trip, error)

	Accept(ctx context.Context, tripID, driverID int64, updatedAt time.Time) error
	Start(ctx context.Context, tripID int64, startedAt time.Time) error
	Complete(ctx context.Context, tripID int64, actualCost float64, completedAt time.Time) error
	Cancel(ctx context.Context, tripID int64, cancelledAt time.Time) error
}

// TripEventRepository manages the append-only trip_events audit rows. The
// TRIP_COMPLETED row carries the full outbound payload, so a completion whose
// broker publish failed can always be replayed from here.
type TripEventRepository interface {
	Append(ctx context.Context, e *trip.Event) error
	ListByTrip(ctx context.Context, tripID int64) ([]*trip.Event, error)
}

// PaymentRepository defines the methods for managing payment data.
type PaymentRepository interface {
	// CreatePayment inserts the payment row. It returns ErrDuplicatePayment
	// when a row for the same trip id already exists (unique constraint),
	// which callers treat as a successful idempotent no-op.
	CreatePayment(ctx context.Context, p *payment.Payment) error

	// ExistsByTripID is the primary idempotency predicate for settlement.
	ExistsByTripID(ctx context.Context, tripID int64) (bool, error)

	// GetByTripID returns ErrPaymentNotFound if no payment exists.
	GetByTripID(ctx context.Context, tripID int64) (*payment.Payment, error)
}
