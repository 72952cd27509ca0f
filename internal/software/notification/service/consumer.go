package service

import (
	"context"
	"encoding/json"

	"taxi-trips/internal/general/contracts"
)

// RunBackgroundConsumer consumes trip completion events until ctx is
// cancelled, restarting the consumer across broker reconnects.
func (service *notificationService) RunBackgroundConsumer(ctx context.Context) {
	service.mq.ConsumeLoop(ctx, contracts.QueueTripCompletedNotification, "notification-service", service.prefetch, service.handleTripCompleted)
}

// handleTripCompleted processes one trip completion delivery. Malformed
// payloads are acked and dropped rather than requeued.
func (service *notificationService) handleTripCompleted(ctx context.Context, body []byte) error {
	var msg contracts.TripCompletedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		service.logger.Error(ctx, "notification_payload_invalid", "Dropping malformed trip completion payload", err, map[string]any{
			"size": len(body),
		})
		return nil
	}
	if msg.TripID <= 0 || msg.UserEmail == "" {
		service.logger.Error(ctx, "notification_payload_invalid", "Dropping trip completion without trip id or recipient", nil, nil)
		return nil
	}

	ctx = service.logger.WithTripID(ctx, msg.TripID)
	if msg.CorrelationID != "" {
		ctx = service.logger.WithRequestID(ctx, msg.CorrelationID)
	}

	return service.NotifyTripCompleted(ctx, msg)
}
