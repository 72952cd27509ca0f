package service

import (
	"context"

	"taxi-trips/internal/ports"
)

const historyLimit = 50

// GetTrip fetches a single trip by id.
func (service *tripService) GetTrip(ctx context.Context, tripID int64) (ports.TripView, error) {
	var view ports.TripView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := service.tripRepo.GetByID(txCtx, tripID)
		if err != nil {
			return err
		}
		view = toView(t)
		return nil
	})
	if err != nil {
		return ports.TripView{}, err
	}

	return view, nil
}

// UserTripHistory returns the user's trips, newest first.
func (service *tripService) UserTripHistory(ctx context.Context, userID int64) ([]ports.TripView, error) {
	var views []ports.TripView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		trips, err := service.tripRepo.ListByUser(txCtx, userID, historyLimit)
		if err != nil {
			return err
		}
		views = make([]ports.TripView, 0, len(trips))
		for _, t := range trips {
			views = append(views, toView(t))
		}
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_history_failed", "Failed to list user trips", err, map[string]any{
			"user_id": userID,
		})
		return nil, err
	}

	return views, nil
}

// DriverTripHistory returns the driver's trips, newest first.
func (service *tripService) DriverTripHistory(ctx context.Context, driverID int64) ([]ports.TripView, error) {
	var views []ports.TripView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		trips, err := service.tripRepo.ListByDriver(txCtx, driverID, historyLimit)
		if err != nil {
			return err
		}
		views = make([]ports.TripView, 0, len(trips))
		for _, t := range trips {
			views = append(views, toView(t))
		}
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_history_failed", "Failed to list driver trips", err, map[string]any{
			"driver_id": driverID,
		})
		return nil, err
	}

	return views, nil
}
