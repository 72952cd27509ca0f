package payment

import (
	"errors"
	"strings"
	"time"
)

// Payment is the domain entity corresponding to the `payments` table. The
// trip id is a unique key there: at most one payment row ever exists per
// trip, regardless of how many times the completion event is delivered.
type Payment struct {
	// Identity & audit
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Foreign keys
	TripID int64
	UserID int64

	// Core state
	Amount        float64
	Status        Status
	TransactionID *string // set only when COMPLETED
}

var (
	ErrTripRequired        = errors.New("trip id is required")
	ErrUserRequired        = errors.New("user id is required")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrTransactionRequired = errors.New("transaction id is required")
	ErrAlreadySettled      = errors.New("payment already settled")
)

// NewPayment constructs a PENDING payment for a completed trip.
func NewPayment(tripID, userID int64, amount float64) (*Payment, error) {
	if tripID <= 0 {
		return nil, ErrTripRequired
	}
	if userID <= 0 {
		return nil, ErrUserRequired
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	now := time.Now().UTC()
	return &Payment{
		CreatedAt: now,
		UpdatedAt: now,
		TripID:    tripID,
		UserID:    userID,
		Amount:    amount,
		Status:    StatusPending,
	}, nil
}

// MarkCompleted records a successful capture with its transaction id.
func (p *Payment) MarkCompleted(transactionID string) error {
	if p.Status.Terminal() {
		return ErrAlreadySettled
	}
	if transactionID = strings.TrimSpace(transactionID); transactionID == "" {
		return ErrTransactionRequired
	}

	p.TransactionID = &transactionID
	p.Status = StatusCompleted
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed records a failed capture. No transaction id is assigned; a
// failed payment is a valid terminal outcome, not a processing error.
func (p *Payment) MarkFailed() error {
	if p.Status.Terminal() {
		return ErrAlreadySettled
	}

	p.Status = StatusFailed
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Succeeded reports whether the capture went through.
func (p *Payment) Succeeded() bool {
	return p.Status == StatusCompleted
}
