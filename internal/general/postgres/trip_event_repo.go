package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"taxi-trips/internal/domain/trip"
	"taxi-trips/internal/ports"
)

// TripEventRepo persists trip events using pgx and plain SQL.
type TripEventRepo struct{}

// NewTripEventRepo constructs a new TripEventRepo.
func NewTripEventRepo() ports.TripEventRepository {
	return &TripEventRepo{}
}

// Append inserts a new trip_events row.
func (repo *TripEventRepo) Append(ctx context.Context, event *trip.Event) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// validate event before inserting
	if err := event.Validate(); err != nil {
		return err
	}

	// serialize event data to JSON
	data, err := event.DataJSON()
	if err != nil {
		return err
	}

	// insert trip event record
	err = tx.QueryRow(ctx, `
		INSERT INTO trip_events (trip_id, event_type, event_data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, created_at
	`,
		event.TripID,
		event.Type.String(),
		string(data),
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// ListByTrip returns the trip's events in insertion order.
func (repo *TripEventRepo) ListByTrip(ctx context.Context, tripID int64) ([]*trip.Event, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, trip_id, event_type, event_data
		FROM trip_events
		WHERE trip_id = $1
		ORDER BY id
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("query trip events: %w", err)
	}
	defer rows.Close()

	var events []*trip.Event
	for rows.Next() {
		var e trip.Event
		var eventType string
		var raw []byte
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.TripID, &eventType, &raw); err != nil {
			return nil, fmt.Errorf("scan trip event: %w", err)
		}
		e.Type = trip.EventType(eventType)
		if err := json.Unmarshal(raw, &e.Data); err != nil {
			return nil, fmt.Errorf("decode trip event data: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}
