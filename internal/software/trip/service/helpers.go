package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"taxi-trips/internal/domain/trip"
	"taxi-trips/internal/general/contracts"
	"taxi-trips/internal/ports"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405") // e.g., 20251028T184523
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishTripCompleted sends a completion event to the trip topic exchange
// using routing key trip.completed.{trip_id}, e.g., trip.completed.42. The
// trip id as the last key segment keeps per-trip ordering at the broker.
func (service *tripService) publishTripCompleted(ctx context.Context, msg contracts.TripCompletedMessage) error {
	routingKey := contracts.RouteTripCompletedPrefix + strconv.FormatInt(msg.TripID, 10)

	if err := service.mq.PublishMessage(ctx, contracts.ExchangeTripTopic, routingKey, msg); err != nil {
		return err
	}

	service.logger.Info(ctx, "trip_completed_published", "Published trip completion to RabbitMQ", map[string]any{
		"routing_key": routingKey,
	})

	return nil
}

// toView maps the domain entity to its external representation.
func toView(t *trip.Trip) ports.TripView {
	return ports.TripView{
		TripID:        t.ID,
		UserID:        t.UserID,
		DriverID:      t.DriverID,
		PickupLabel:   t.PickupLabel,
		DropoffLabel:  t.DropoffLabel,
		DistanceKM:    t.DistanceKM,
		EstimatedCost: t.EstimatedCost,
		ActualCost:    t.ActualCost,
		Status:        t.Status.String(),
		RequestedAt:   t.RequestedAt,
		StartedAt:     t.StartedAt,
		CompletedAt:   t.CompletedAt,
	}
}
