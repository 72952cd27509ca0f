package service

import (
	"context"
	"fmt"

	"taxi-trips/internal/ports"
)

// AcceptTrip assigns a driver and moves the trip REQUESTED -> ACCEPTED.
func (service *tripService) AcceptTrip(ctx context.Context, tripID, driverID int64) (ports.TripView, error) {
	var view ports.TripView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// lock the row so concurrent transitions serialize
		t, err := service.tripRepo.GetByIDForUpdate(txCtx, tripID)
		if err != nil {
			return err
		}

		// domain transition validates the precondition and sets the driver
		if err := t.Accept(driverID); err != nil {
			return err
		}

		if err := service.tripRepo.Accept(txCtx, t.ID, driverID, t.UpdatedAt); err != nil {
			return err
		}

		view = toView(t)
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_accept_failed", "Failed to accept trip", err, map[string]any{
			"trip_id":   tripID,
			"driver_id": driverID,
		})
		return ports.TripView{}, err
	}

	service.logger.Info(ctx, "trip_accepted", fmt.Sprintf("Trip %d accepted by driver %d", tripID, driverID), map[string]any{
		"trip_id":   tripID,
		"driver_id": driverID,
	})

	return view, nil
}

// StartTrip moves the trip ACCEPTED -> IN_PROGRESS and stamps the start time.
func (service *tripService) StartTrip(ctx context.Context, tripID int64) (ports.TripView, error) {
	var view ports.TripView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := service.tripRepo.GetByIDForUpdate(txCtx, tripID)
		if err != nil {
			return err
		}

		if err := t.Start(); err != nil {
			return err
		}

		if err := service.tripRepo.Start(txCtx, t.ID, *t.StartedAt); err != nil {
			return err
		}

		view = toView(t)
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_start_failed", "Failed to start trip", err, map[string]any{
			"trip_id": tripID,
		})
		return ports.TripView{}, err
	}

	service.logger.Info(ctx, "trip_started", fmt.Sprintf("Trip %d started", tripID), map[string]any{
		"trip_id": tripID,
	})

	return view, nil
}

// CancelTrip moves the trip to CANCELLED from any non-terminal state.
func (service *tripService) CancelTrip(ctx context.Context, tripID int64) (ports.TripView, error) {
	var view ports.TripView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := service.tripRepo.GetByIDForUpdate(txCtx, tripID)
		if err != nil {
			return err
		}

		if err := t.Cancel(); err != nil {
			return err
		}

		if err := service.tripRepo.Cancel(txCtx, t.ID, t.UpdatedAt); err != nil {
			return err
		}

		view = toView(t)
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_cancel_failed", "Failed to cancel trip", err, map[string]any{
			"trip_id": tripID,
		})
		return ports.TripView{}, err
	}

	service.logger.Info(ctx, "trip_cancelled", fmt.Sprintf("Trip %d cancelled", tripID), map[string]any{
		"trip_id": tripID,
	})

	return view, nil
}
