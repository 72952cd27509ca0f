package service

import (
	"context"
	"encoding/json"

	"taxi-trips/internal/general/contracts"
)

// RunBackgroundConsumer consumes trip completion events until ctx is
// cancelled, restarting the consumer across broker reconnects.
func (service *paymentService) RunBackgroundConsumer(ctx context.Context) {
	service.mq.ConsumeLoop(ctx, contracts.QueueTripCompletedPayment, "payment-service", service.prefetch, service.handleTripCompleted)
}

// handleTripCompleted processes one trip completion delivery. A malformed
// payload is acked and dropped: requeueing it would poison the queue, and the
// producer-side event row keeps the data recoverable. Settlement errors
// propagate so the delivery is redelivered.
func (service *paymentService) handleTripCompleted(ctx context.Context, body []byte) error {
	var msg contracts.TripCompletedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		service.logger.Error(ctx, "payment_payload_invalid", "Dropping malformed trip completion payload", err, map[string]any{
			"size": len(body),
		})
		return nil
	}
	if msg.TripID <= 0 {
		service.logger.Error(ctx, "payment_payload_invalid", "Dropping trip completion without a trip id", nil, nil)
		return nil
	}

	ctx = service.logger.WithTripID(ctx, msg.TripID)
	if msg.CorrelationID != "" {
		ctx = service.logger.WithRequestID(ctx, msg.CorrelationID)
	}

	return service.SettleTrip(ctx, msg)
}
