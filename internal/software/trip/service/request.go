package service

import (
	"context"
	"fmt"
	"time"

	"taxi-trips/internal/domain/fare"
	"taxi-trips/internal/domain/trip"
	"taxi-trips/internal/ports"
)

// RequestTrip creates a new trip in REQUESTED state. The distance and fare
// estimate are computed up front; the estimate uses the multiplier in effect
// at request time and is never revised until completion.
func (service *tripService) RequestTrip(ctx context.Context, in ports.RequestTripInput) (ports.TripView, error) {
	correlationID := generateCorrelationID()

	// compute the route distance
	dst := fare.Distance(
		fare.Point{Lat: in.PickupLat, Lng: in.PickupLng},
		fare.Point{Lat: in.DropoffLat, Lng: in.DropoffLng},
	)

	// estimate the fare at the current rate
	estimated := fare.Fare(dst, time.Now())

	// build the domain entity (validates actors and coordinates)
	t, err := trip.NewTrip(
		in.UserID,
		in.PickupLabel, in.PickupLat, in.PickupLng,
		in.DropoffLabel, in.DropoffLat, in.DropoffLng,
		dst, estimated,
	)
	if err != nil {
		return ports.TripView{}, err
	}

	// persist the trip together with its initial audit event
	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return service.tripRepo.CreateTrip(txCtx, t)
	})
	if err != nil {
		service.logger.Error(ctx, "trip_request_failed", "Failed to create trip", err, map[string]any{
			"user_id":    in.UserID,
			"request_id": correlationID,
		})
		return ports.TripView{}, err
	}

	service.logger.Info(ctx, "trip_requested", fmt.Sprintf("Trip %d requested", t.ID), map[string]any{
		"trip_id":        t.ID,
		"user_id":        t.UserID,
		"distance_km":    t.DistanceKM,
		"estimated_cost": t.EstimatedCost,
		"request_id":     correlationID,
	})

	return toView(t), nil
}
