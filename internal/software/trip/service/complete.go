package service

import (
	"context"
	"fmt"
	"time"

	"taxi-trips/internal/domain/fare"
	"taxi-trips/internal/domain/trip"
	"taxi-trips/internal/general/contracts"
	"taxi-trips/internal/ports"
)

// CompleteTrip finalizes an IN_PROGRESS trip. The fare is recomputed at the
// completion-time rate, so a trip estimated during peak hours but completed at
// night settles at the night multiplier. The status update and the
// TRIP_COMPLETED event row commit in one transaction; the broker publish
// happens after commit and its failure does not fail the operation, because
// the event row already carries the full payload for replay.
func (service *tripService) CompleteTrip(ctx context.Context, tripID int64, userEmail string) (ports.TripView, error) {
	correlationID := generateCorrelationID()

	var (
		view ports.TripView
		msg  contracts.TripCompletedMessage
	)

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		t, err := service.tripRepo.GetByIDForUpdate(txCtx, tripID)
		if err != nil {
			return err
		}

		// settle at the rate in effect right now, not the estimate
		now := time.Now()
		actualCost := fare.Fare(t.DistanceKM, now)

		if err := t.Complete(actualCost); err != nil {
			return err
		}

		if err := service.tripRepo.Complete(txCtx, t.ID, actualCost, *t.CompletedAt); err != nil {
			return err
		}

		msg = contracts.TripCompletedMessage{
			TripID:       t.ID,
			UserID:       t.UserID,
			DriverID:     *t.DriverID,
			UserEmail:    userEmail,
			PickupLabel:  t.PickupLabel,
			DropoffLabel: t.DropoffLabel,
			Cost:         actualCost,
			DistanceKM:   t.DistanceKM,
			StartTime:    t.StartedAt.UTC(),
			EndTime:      t.CompletedAt.UTC(),
			Envelope: contracts.Envelope{
				CorrelationID: correlationID,
				Producer:      "trip-service",
				SentAt:        time.Now().UTC(),
			},
		}

		// the completion event row doubles as the replay source, so it
		// carries the full outbound payload rather than a status delta
		event, err := trip.NewEvent(t.ID, trip.EventTripCompleted, completionEventData(msg))
		if err != nil {
			return err
		}
		if err := service.eventRepo.Append(txCtx, event); err != nil {
			return err
		}

		view = toView(t)
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "trip_complete_failed", "Failed to complete trip", err, map[string]any{
			"trip_id":    tripID,
			"request_id": correlationID,
		})
		return ports.TripView{}, err
	}

	// publish after commit; a failure here is logged, never surfaced
	if err := service.publishTripCompleted(ctx, msg); err != nil {
		service.logger.Error(ctx, "trip_completed_publish_failed", "Failed to publish trip completion to RabbitMQ", err, map[string]any{
			"trip_id":    tripID,
			"request_id": correlationID,
		})
	}

	service.logger.Info(ctx, "trip_completed", fmt.Sprintf("Trip %d completed", tripID), map[string]any{
		"trip_id":     tripID,
		"actual_cost": msg.Cost,
		"request_id":  correlationID,
	})

	return view, nil
}

// completionEventData flattens the outbound message into the event_data shape
// stored in trip_events.
func completionEventData(msg contracts.TripCompletedMessage) map[string]any {
	return map[string]any{
		"new_status":    trip.StatusCompleted.String(),
		"trip_id":       msg.TripID,
		"user_id":       msg.UserID,
		"driver_id":     msg.DriverID,
		"user_email":    msg.UserEmail,
		"pickup_label":  msg.PickupLabel,
		"dropoff_label": msg.DropoffLabel,
		"cost":          msg.Cost,
		"distance_km":   msg.DistanceKM,
		"start_time":    msg.StartTime.Format(time.RFC3339),
		"end_time":      msg.EndTime.Format(time.RFC3339),
	}
}
