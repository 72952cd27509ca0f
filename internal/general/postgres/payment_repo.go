package postgres

import (
	"context"
	"errors"

	"taxi-trips/internal/domain/payment"
	"taxi-trips/internal/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code raised when an insert breaks a
// unique constraint; for payments this means a concurrent delivery won the
// insert race on trip_id first.
const uniqueViolation = "23505"

// PaymentRepo persists payments using pgx and plain SQL.
type PaymentRepo struct{}

// NewPaymentRepo constructs a new PaymentRepo.
func NewPaymentRepo() ports.PaymentRepository {
	return &PaymentRepo{}
}

// CreatePayment inserts the payment row. The payments table has a unique
// constraint on trip_id; a violation is mapped to ports.ErrDuplicatePayment
// so callers can treat the delivery as an idempotent no-op.
func (repo *PaymentRepo) CreatePayment(ctx context.Context, p *payment.Payment) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (trip_id, user_id, amount, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`,
		p.TripID,
		p.UserID,
		p.Amount,
		p.Status.String(),
		p.TransactionID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrDuplicatePayment
		}
		return err
	}

	return nil
}

// ExistsByTripID reports whether a payment row exists for the trip.
func (repo *PaymentRepo) ExistsByTripID(ctx context.Context, tripID int64) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payments WHERE trip_id = $1)
	`, tripID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// GetByTripID fetches the payment settled for a trip.
func (repo *PaymentRepo) GetByTripID(ctx context.Context, tripID int64) (*payment.Payment, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out payment.Payment
	var status string
	err = tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at, trip_id, user_id, amount, status, transaction_id
		FROM payments
		WHERE trip_id = $1
	`, tripID).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.TripID, &out.UserID,
		&out.Amount, &status, &out.TransactionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrPaymentNotFound
		}
		return nil, err
	}
	out.Status = payment.Status(status)

	return &out, nil
}
