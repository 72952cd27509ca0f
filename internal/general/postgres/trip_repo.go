package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taxi-trips/internal/domain/trip"
	"taxi-trips/internal/ports"

	"github.com/jackc/pgx/v5"
)

// TripRepo persists trips using pgx and plain SQL.
type TripRepo struct{}

// NewTripRepo constructs a new TripRepo.
func NewTripRepo() ports.TripRepository {
	return &TripRepo{}
}

const tripColumns = `
	id, created_at, updated_at, user_id, driver_id,
	pickup_label, pickup_lat, pickup_lng,
	dropoff_label, dropoff_lat, dropoff_lng,
	distance_km, estimated_cost, actual_cost, status,
	requested_at, started_at, completed_at`

// CreateTrip inserts a new trip row and writes the initial TRIP_REQUESTED event.
func (repo *TripRepo) CreateTrip(ctx context.Context, t *trip.Trip) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// insert only the columns that have values at request time
	err = tx.QueryRow(ctx, `
		INSERT INTO trips (
			user_id, pickup_label, pickup_lat, pickup_lng,
			dropoff_label, dropoff_lat, dropoff_lng,
			distance_km, estimated_cost, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at, requested_at
	`,
		t.UserID,
		t.PickupLabel, t.PickupLat, t.PickupLng,
		t.DropoffLabel, t.DropoffLat, t.DropoffLng,
		t.DistanceKM,
		t.EstimatedCost,
		t.Status.String(), // always "REQUESTED" here
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.RequestedAt)
	if err != nil {
		return err
	}

	eventData := map[string]any{
		"new_status":     t.Status.String(),
		"estimated_cost": t.EstimatedCost,
		"distance_km":    t.DistanceKM,
	}
	return insertTripEvent(ctx, tx, t.ID, trip.EventTripRequested, eventData)
}

// GetByID fetches a trip by primary key.
func (repo *TripRepo) GetByID(ctx context.Context, id int64) (*trip.Trip, error) {
	return repo.getByID(ctx, id, false)
}

// GetByIDForUpdate fetches a trip by primary key and locks the row until the
// surrounding transaction finishes.
func (repo *TripRepo) GetByIDForUpdate(ctx context.Context, id int64) (*trip.Trip, error) {
	return repo.getByID(ctx, id, true)
}

func (repo *TripRepo) getByID(ctx context.Context, id int64, forUpdate bool) (*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var out trip.Trip
	var status string
	err = tx.QueryRow(ctx, query, id).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.UserID, &out.DriverID,
		&out.PickupLabel, &out.PickupLat, &out.PickupLng,
		&out.DropoffLabel, &out.DropoffLat, &out.DropoffLng,
		&out.DistanceKM, &out.EstimatedCost, &out.ActualCost, &status,
		&out.RequestedAt, &out.StartedAt, &out.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrTripNotFound
		}
		return nil, err
	}
	out.Status = trip.Status(status)

	return &out, nil
}

// ListByUser returns the user's trips, newest first.
func (repo *TripRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*trip.Trip, error) {
	return repo.list(ctx, `user_id`, userID, limit)
}

// ListByDriver returns the driver's trips, newest first.
func (repo *TripRepo) ListByDriver(ctx context.Context, driverID int64, limit int) ([]*trip.Trip, error) {
	return repo.list(ctx, `driver_id`, driverID, limit)
}

func (repo *TripRepo) list(ctx context.Context, column string, id int64, limit int) ([]*trip.Trip, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE ` + column + ` = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := tx.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("query trips by %s: %w", column, err)
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		var t trip.Trip
		var status string
		err := rows.Scan(
			&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.UserID, &t.DriverID,
			&t.PickupLabel, &t.PickupLat, &t.PickupLng,
			&t.DropoffLabel, &t.DropoffLat, &t.DropoffLng,
			&t.DistanceKM, &t.EstimatedCost, &t.ActualCost, &status,
			&t.RequestedAt, &t.StartedAt, &t.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		t.Status = trip.Status(status)
		trips = append(trips, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return trips, nil
}

// Accept sets driver_id and moves status to ACCEPTED.
func (repo *TripRepo) Accept(ctx context.Context, tripID, driverID int64, updatedAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET driver_id = $1,
		    status = 'ACCEPTED',
		    updated_at = $2
		WHERE id = $3
		  AND status = 'REQUESTED'
	`, driverID, updatedAt, tripID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staleTransition(ctx, tx, tripID, "accept")
	}

	eventData := map[string]any{
		"new_status": trip.StatusAccepted.String(),
		"driver_id":  driverID,
	}
	return insertTripEvent(ctx, tx, tripID, trip.EventTripAccepted, eventData)
}

// Start stamps started_at and moves status to IN_PROGRESS.
func (repo *TripRepo) Start(ctx context.Context, tripID int64, startedAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = 'IN_PROGRESS',
		    started_at = $1,
		    updated_at = $1
		WHERE id = $2
		  AND status = 'ACCEPTED'
	`, startedAt, tripID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staleTransition(ctx, tx, tripID, "start")
	}

	eventData := map[string]any{
		"new_status": trip.StatusInProgress.String(),
		"started_at": startedAt.UTC().Format(time.RFC3339),
	}
	return insertTripEvent(ctx, tx, tripID, trip.EventTripStarted, eventData)
}

// Complete finalizes a trip with the settled cost, stamps completed_at, and
// moves status to COMPLETED. The TRIP_COMPLETED event row is appended by the
// caller because it carries the full outbound payload.
func (repo *TripRepo) Complete(ctx context.Context, tripID int64, actualCost float64, completedAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = 'COMPLETED',
		    actual_cost = $1,
		    completed_at = $2,
		    updated_at = $2
		WHERE id = $3
		  AND status = 'IN_PROGRESS'
	`, actualCost, completedAt, tripID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staleTransition(ctx, tx, tripID, "complete")
	}

	return nil
}

// Cancel moves status to CANCELLED from any non-terminal state.
func (repo *TripRepo) Cancel(ctx context.Context, tripID int64, cancelledAt time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = 'CANCELLED',
		    updated_at = $1
		WHERE id = $2
		  AND status IN ('REQUESTED', 'ACCEPTED', 'IN_PROGRESS')
	`, cancelledAt, tripID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staleTransition(ctx, tx, tripID, "cancel")
	}

	eventData := map[string]any{
		"new_status":   trip.StatusCancelled.String(),
		"cancelled_at": cancelledAt.UTC().Format(time.RFC3339),
	}
	return insertTripEvent(ctx, tx, tripID, trip.EventTripCancelled, eventData)
}

// --- helpers ---

// staleTransition resolves why a guarded UPDATE touched no rows: either the
// trip is gone, or another transaction moved it first. Both surface as
// caller-visible errors, never as silent success.
func staleTransition(ctx context.Context, tx pgx.Tx, tripID int64, op string) error {
	var current string
	err := tx.QueryRow(ctx, `SELECT status FROM trips WHERE id = $1`, tripID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.ErrTripNotFound
		}
		return err
	}
	return &trip.InvalidTransitionError{Op: op, Status: trip.Status(current)}
}

// insertTripEvent writes a row into trip_events with encoded event_data.
func insertTripEvent(ctx context.Context, tx pgx.Tx, tripID int64, eventType trip.EventType, eventData any) error {
	body, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trip_events (trip_id, event_type, event_data)
		VALUES ($1, $2, $3::jsonb)
	`, tripID, eventType.String(), string(body))
	return err
}
