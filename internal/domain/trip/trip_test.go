package trip

import (
	"errors"
	"testing"
)

func newTestTrip(t *testing.T) *Trip {
	t.Helper()
	tr, err := NewTrip(7, "Airport", 41.25, 69.28, "Center", 41.31, 69.24, 12.5, 36.25)
	if err != nil {
		t.Fatalf("NewTrip: %v", err)
	}
	return tr
}

func TestNewTripStartsRequested(t *testing.T) {
	tr := newTestTrip(t)

	if tr.Status != StatusRequested {
		t.Fatalf("status = %s, want %s", tr.Status, StatusRequested)
	}
	if tr.DriverID != nil {
		t.Fatalf("driver assigned at request time: %v", *tr.DriverID)
	}
	if tr.ActualCost != nil {
		t.Fatalf("actual cost set at request time: %v", *tr.ActualCost)
	}
	if tr.RequestedAt.IsZero() {
		t.Fatal("requested_at not stamped")
	}
}

func TestNewTripValidation(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (*Trip, error)
		want error
	}{
		{"missing user", func() (*Trip, error) {
			return NewTrip(0, "A", 0, 0, "B", 1, 1, 1, 1)
		}, ErrUserRequired},
		{"blank pickup label", func() (*Trip, error) {
			return NewTrip(1, "  ", 0, 0, "B", 1, 1, 1, 1)
		}, ErrPickupLabelRequired},
		{"blank dropoff label", func() (*Trip, error) {
			return NewTrip(1, "A", 0, 0, "", 1, 1, 1, 1)
		}, ErrDropoffLabelRequired},
		{"latitude out of range", func() (*Trip, error) {
			return NewTrip(1, "A", 91, 0, "B", 1, 1, 1, 1)
		}, ErrInvalidLatitude},
		{"longitude out of range", func() (*Trip, error) {
			return NewTrip(1, "A", 0, -181, "B", 1, 1, 1, 1)
		}, ErrInvalidLongitude},
		{"negative distance", func() (*Trip, error) {
			return NewTrip(1, "A", 0, 0, "B", 1, 1, -1, 1)
		}, ErrNegativeDistance},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.fn(); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestHappyPathLifecycle(t *testing.T) {
	tr := newTestTrip(t)

	if err := tr.Accept(3); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if tr.Status != StatusAccepted || tr.DriverID == nil || *tr.DriverID != 3 {
		t.Fatalf("after accept: status=%s driver=%v", tr.Status, tr.DriverID)
	}

	if err := tr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tr.Status != StatusInProgress || tr.StartedAt == nil {
		t.Fatalf("after start: status=%s started_at=%v", tr.Status, tr.StartedAt)
	}

	if err := tr.Complete(39.00); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if tr.Status != StatusCompleted || tr.CompletedAt == nil {
		t.Fatalf("after complete: status=%s completed_at=%v", tr.Status, tr.CompletedAt)
	}
	if tr.ActualCost == nil || *tr.ActualCost != 39.00 {
		t.Fatalf("actual cost = %v, want 39.00", tr.ActualCost)
	}
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	cases := []struct {
		name string
		prep func(tr *Trip)
		op   func(tr *Trip) error
	}{
		{"start before accept", func(tr *Trip) {}, func(tr *Trip) error { return tr.Start() }},
		{"complete before start", func(tr *Trip) { _ = tr.Accept(3) }, func(tr *Trip) error { return tr.Complete(10) }},
		{"complete from requested", func(tr *Trip) {}, func(tr *Trip) error { return tr.Complete(10) }},
		{"accept twice", func(tr *Trip) { _ = tr.Accept(3) }, func(tr *Trip) error { return tr.Accept(4) }},
		{"accept after cancel", func(tr *Trip) { _ = tr.Cancel() }, func(tr *Trip) error { return tr.Accept(3) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := newTestTrip(t)
			c.prep(tr)

			before := *tr
			err := c.op(tr)
			if err == nil {
				t.Fatal("expected transition error, got nil")
			}
			if !errors.Is(err, ErrInvalidStateTransition) {
				t.Fatalf("err = %v, want ErrInvalidStateTransition", err)
			}

			// a rejected operation must not mutate the trip
			if tr.Status != before.Status {
				t.Fatalf("status changed on failed op: %s -> %s", before.Status, tr.Status)
			}
			if (tr.ActualCost == nil) != (before.ActualCost == nil) {
				t.Fatal("actual cost changed on failed op")
			}
		})
	}
}

func TestInvalidTransitionErrorNamesOpAndStatus(t *testing.T) {
	tr := newTestTrip(t)

	err := tr.Start()
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("err = %T, want *InvalidTransitionError", err)
	}
	if ite.Op != "start" || ite.Status != StatusRequested {
		t.Fatalf("error = %+v, want op=start status=REQUESTED", ite)
	}
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	// REQUESTED
	tr := newTestTrip(t)
	if err := tr.Cancel(); err != nil {
		t.Fatalf("cancel from REQUESTED: %v", err)
	}

	// ACCEPTED
	tr = newTestTrip(t)
	_ = tr.Accept(3)
	if err := tr.Cancel(); err != nil {
		t.Fatalf("cancel from ACCEPTED: %v", err)
	}

	// IN_PROGRESS
	tr = newTestTrip(t)
	_ = tr.Accept(3)
	_ = tr.Start()
	if err := tr.Cancel(); err != nil {
		t.Fatalf("cancel from IN_PROGRESS: %v", err)
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	completed := newTestTrip(t)
	_ = completed.Accept(3)
	_ = completed.Start()
	_ = completed.Complete(20)

	cancelled := newTestTrip(t)
	_ = cancelled.Cancel()

	for _, tr := range []*Trip{completed, cancelled} {
		if err := tr.Cancel(); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("cancel in %s: err = %v", tr.Status, err)
		}
		if err := tr.Start(); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("start in %s: err = %v", tr.Status, err)
		}
		if err := tr.Complete(1); !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("complete in %s: err = %v", tr.Status, err)
		}
	}
}

func TestAcceptRequiresDriver(t *testing.T) {
	tr := newTestTrip(t)
	if err := tr.Accept(0); !errors.Is(err, ErrDriverRequired) {
		t.Fatalf("err = %v, want ErrDriverRequired", err)
	}
	if tr.Status != StatusRequested {
		t.Fatalf("status changed: %s", tr.Status)
	}
}

func TestStatusTransitionsTable(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusRequested, StatusAccepted, true},
		{StatusRequested, StatusCancelled, true},
		{StatusRequested, StatusInProgress, false},
		{StatusRequested, StatusCompleted, false},
		{StatusAccepted, StatusInProgress, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusAccepted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusAccepted, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("%s -> %s = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}
