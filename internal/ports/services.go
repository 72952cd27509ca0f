package ports

import (
	"context"
	"time"

	"taxi-trips/internal/general/contracts"
)

// ----- DTOs for Trip Service -----

// RequestTripInput is the validated input required to request a trip.
type RequestTripInput struct {
	UserID       int64
	PickupLabel  string
	PickupLat    float64
	PickupLng    float64
	DropoffLabel string
	DropoffLat   float64
	DropoffLng   float64
}

// TripView is the external representation of a trip, shared by every
// trip-service response.
type TripView struct {
	TripID        int64      `json:"trip_id"`
	UserID        int64      `json:"user_id"`
	DriverID      *int64     `json:"driver_id,omitempty"`
	PickupLabel   string     `json:"pickup_label"`
	DropoffLabel  string     `json:"dropoff_label"`
	DistanceKM    float64    `json:"distance_km"`
	EstimatedCost float64    `json:"estimated_cost"`
	ActualCost    *float64   `json:"actual_cost,omitempty"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requested_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ----- Trip Service Interface -----

// TripService exposes the trip lifecycle boundary.
type TripService interface {
	RequestTrip(ctx context.Context, in RequestTripInput) (TripView, error)
	AcceptTrip(ctx context.Context, tripID, driverID int64) (TripView, error)
	StartTrip(ctx context.Context, tripID int64) (TripView, error)

	// CompleteTrip settles the trip at the completion-time rate and publishes
	// the completion event. userEmail is the requester contact carried in the
	// event; the user profile store is an external collaborator.
	CompleteTrip(ctx context.Context, tripID int64, userEmail string) (TripView, error)

	CancelTrip(ctx context.Context, tripID int64) (TripView, error)

	GetTrip(ctx context.Context, tripID int64) (TripView, error)
	UserTripHistory(ctx context.Context, userID int64) ([]TripView, error)
	DriverTripHistory(ctx context.Context, driverID int64) ([]TripView, error)
}

// ----- DTOs for Payment Service -----

// PaymentView is the external representation of a payment.
type PaymentView struct {
	PaymentID     int64   `json:"payment_id"`
	TripID        int64   `json:"trip_id"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// ----- Payment Service Interface -----

// PaymentService settles completed trips. SettleTrip must be safe to invoke
// any number of times for the same trip id.
type PaymentService interface {
	SettleTrip(ctx context.Context, msg contracts.TripCompletedMessage) error
	GetPaymentByTrip(ctx context.Context, tripID int64) (PaymentView, error)
	RunBackgroundConsumer(ctx context.Context)
}

// CaptureGateway is the external payment-capture collaborator. The bundled
// implementation simulates a gateway that always succeeds; a real integration
// substitutes here without changing the settlement idempotency contract.
type CaptureGateway interface {
	Capture(ctx context.Context, tripID, userID int64, amount float64) (bool, error)
}

// ----- Notification Service Interface -----

// NotificationService sends trip summaries. Delivery is best effort: failures
// are logged and swallowed, and duplicate source events may duplicate the
// message.
type NotificationService interface {
	NotifyTripCompleted(ctx context.Context, msg contracts.TripCompletedMessage) error
	RunBackgroundConsumer(ctx context.Context)
}

// Mailer is the outbound email collaborator.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MessagePublisher publishes a JSON payload to a broker exchange. The
// RabbitMQ client satisfies it; tests substitute a recording fake.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, exchange, routingKey string, payload any) error
}
