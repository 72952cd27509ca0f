package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Trip is the domain entity corresponding to the `trips` table.
type Trip struct {
	// Identity & audit
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Actors
	UserID   int64
	DriverID *int64 // nil until accepted

	// Route
	PickupLabel  string
	PickupLat    float64
	PickupLng    float64
	DropoffLabel string
	DropoffLat   float64
	DropoffLng   float64

	// Pricing
	DistanceKM    float64
	EstimatedCost float64  // set at request time
	ActualCost    *float64 // set only at completion

	// Core state
	Status Status

	// Lifecycle timestamps
	RequestedAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

var (
	ErrUserRequired           = errors.New("user id is required")
	ErrDriverRequired         = errors.New("driver id is required")
	ErrPickupLabelRequired    = errors.New("pickup label is required")
	ErrDropoffLabelRequired   = errors.New("dropoff label is required")
	ErrInvalidLatitude        = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude       = errors.New("longitude must be between -180 and 180")
	ErrNegativeDistance       = errors.New("distance_km cannot be negative")
	ErrAlreadyAssigned        = errors.New("driver already assigned")
	ErrInvalidStateTransition = errors.New("invalid trip state transition")
)

// InvalidTransitionError reports a lifecycle operation attempted against a
// trip whose current status does not satisfy the operation's precondition.
// It matches ErrInvalidStateTransition via errors.Is.
type InvalidTransitionError struct {
	Op     string // attempted operation, e.g. "start"
	Status Status // actual status at the time of the call
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s trip in status %s", e.Op, e.Status)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// NewTrip creates a new trip in REQUESTED state with a precomputed distance
// and fare estimate.
func NewTrip(userID int64, pickupLabel string, pickupLat, pickupLng float64, dropoffLabel string, dropoffLat, dropoffLng float64, distanceKM, estimatedCost float64) (*Trip, error) {
	if userID <= 0 {
		return nil, ErrUserRequired
	}
	if pickupLabel = strings.TrimSpace(pickupLabel); pickupLabel == "" {
		return nil, ErrPickupLabelRequired
	}
	if dropoffLabel = strings.TrimSpace(dropoffLabel); dropoffLabel == "" {
		return nil, ErrDropoffLabelRequired
	}
	if pickupLat < -90 || pickupLat > 90 || dropoffLat < -90 || dropoffLat > 90 {
		return nil, ErrInvalidLatitude
	}
	if pickupLng < -180 || pickupLng > 180 || dropoffLng < -180 || dropoffLng > 180 {
		return nil, ErrInvalidLongitude
	}
	if distanceKM < 0 {
		return nil, ErrNegativeDistance
	}

	now := time.Now().UTC()
	return &Trip{
		CreatedAt:     now,
		UpdatedAt:     now,
		UserID:        userID,
		PickupLabel:   pickupLabel,
		PickupLat:     pickupLat,
		PickupLng:     pickupLng,
		DropoffLabel:  dropoffLabel,
		DropoffLat:    dropoffLat,
		DropoffLng:    dropoffLng,
		DistanceKM:    distanceKM,
		EstimatedCost: estimatedCost,
		Status:        StatusRequested,
		RequestedAt:   now,
	}, nil
}

// Accept sets the driver and moves REQUESTED -> ACCEPTED.
func (t *Trip) Accept(driverID int64) error {
	if driverID <= 0 {
		return ErrDriverRequired
	}
	if t.Status != StatusRequested {
		return &InvalidTransitionError{Op: "accept", Status: t.Status}
	}
	if t.DriverID != nil {
		return ErrAlreadyAssigned
	}

	t.DriverID = &driverID
	t.setStatus(StatusAccepted)
	return nil
}

// Start stamps StartedAt and moves ACCEPTED -> IN_PROGRESS.
func (t *Trip) Start() error {
	if t.Status != StatusAccepted {
		return &InvalidTransitionError{Op: "start", Status: t.Status}
	}

	now := time.Now().UTC()
	t.StartedAt = &now
	t.setStatus(StatusInProgress)
	return nil
}

// Complete stamps CompletedAt, records the settled cost, and moves
// IN_PROGRESS -> COMPLETED. The cost is recomputed by the caller at
// completion time, not copied from the estimate.
func (t *Trip) Complete(actualCost float64) error {
	if t.Status != StatusInProgress {
		return &InvalidTransitionError{Op: "complete", Status: t.Status}
	}

	now := time.Now().UTC()
	t.CompletedAt = &now
	t.ActualCost = &actualCost
	t.setStatus(StatusCompleted)
	return nil
}

// Cancel transitions to CANCELLED from any non-terminal state.
func (t *Trip) Cancel() error {
	if t.Status.Terminal() {
		return &InvalidTransitionError{Op: "cancel", Status: t.Status}
	}

	t.setStatus(StatusCancelled)
	return nil
}

// ----- internal helpers -----

func (t *Trip) setStatus(status Status) {
	t.Status = status
	t.touch()
}

func (t *Trip) touch() {
	t.UpdatedAt = time.Now().UTC()
}
