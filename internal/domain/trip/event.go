package trip

import (
	"encoding/json"
	"errors"
	"maps"
	"strings"
	"time"
)

// EventType corresponds to the values allowed in the `trip_events` table.
type EventType string

const (
	EventTripRequested EventType = "TRIP_REQUESTED"
	EventTripAccepted  EventType = "TRIP_ACCEPTED"
	EventTripStarted   EventType = "TRIP_STARTED"
	EventTripCompleted EventType = "TRIP_COMPLETED"
	EventTripCancelled EventType = "TRIP_CANCELLED"
)

var ErrInvalidEventType = errors.New("invalid trip event type")

// ParseEventType normalizes (uppercases+trims) and validates an event type string.
func ParseEventType(input string) (EventType, error) {
	eventType := EventType(strings.ToUpper(strings.TrimSpace(input)))
	if eventType.Valid() {
		return eventType, nil
	}
	return "", ErrInvalidEventType
}

// Valid reports whether eventType is one of the allowed event type constants.
func (eventType EventType) Valid() bool {
	switch eventType {
	case EventTripRequested, EventTripAccepted, EventTripStarted, EventTripCompleted, EventTripCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the EventType.
func (eventType EventType) String() string {
	return string(eventType)
}

// Event is the domain entity corresponding to the `trip_events` table. Rows
// are append-only; the TRIP_COMPLETED row carries the full completion payload
// and is the replay source for the outbound trip-completed message.
type Event struct {
	// Identity & audit
	ID        int64
	CreatedAt time.Time

	// Foreign keys
	TripID int64

	// Core payload
	Type EventType
	Data map[string]any
}

var (
	ErrTripIDRequired = errors.New("trip id is required")
	ErrEventDataNil   = errors.New("event data must not be nil")
)

// NewEvent constructs a new domain Event.
func NewEvent(tripID int64, eventType EventType, eventData map[string]any) (*Event, error) {
	if tripID <= 0 {
		return nil, ErrTripIDRequired
	}
	if !eventType.Valid() {
		return nil, ErrInvalidEventType
	}
	if eventData == nil {
		return nil, ErrEventDataNil
	}

	return &Event{
		TripID:    tripID,
		Type:      eventType,
		Data:      cloneMap(eventData),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Validate performs basic invariant checks mirroring DB constraints.
func (event *Event) Validate() error {
	if event.TripID <= 0 {
		return ErrTripIDRequired
	}
	if !event.Type.Valid() {
		return ErrInvalidEventType
	}
	if event.Data == nil {
		return ErrEventDataNil
	}
	return nil
}

// DataJSON returns event.Data encoded as JSON.
func (event *Event) DataJSON() ([]byte, error) {
	if event.Data == nil {
		return nil, ErrEventDataNil
	}
	return json.Marshal(event.Data)
}

// cloneMap makes a shallow defensive copy of a map[string]any.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	maps.Copy(dst, src)
	return dst
}
