package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"taxi-trips/internal/domain/payment"
	"taxi-trips/internal/general/contracts"
	"taxi-trips/internal/general/idempotency"
	"taxi-trips/internal/ports"

	"github.com/google/uuid"
)

// SettleTrip charges the user for a completed trip. Delivery is at-least-once,
// so the whole operation is idempotent on trip id: an existence check catches
// ordinary redeliveries, and the unique constraint on payments.trip_id catches
// two deliveries racing past the check. Either way the duplicate is dropped
// without touching the gateway a second time. Only the call that actually
// inserts the payment publishes the processed event; the winner of a race has
// already published it.
func (service *paymentService) SettleTrip(ctx context.Context, msg contracts.TripCompletedMessage) error {
	if msg.TripID <= 0 {
		return fmt.Errorf("settle trip: invalid trip id %d", msg.TripID)
	}

	var settled *payment.Payment

	processed := func(ctx context.Context) (bool, error) {
		var exists bool
		err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
			var err error
			exists, err = service.paymentRepo.ExistsByTripID(txCtx, msg.TripID)
			return err
		})
		return exists, err
	}

	effect := func(ctx context.Context) error {
		p, err := payment.NewPayment(msg.TripID, msg.UserID, msg.Cost)
		if err != nil {
			return err
		}

		// capture outside any transaction; the gateway is an external call
		ok, err := service.gateway.Capture(ctx, msg.TripID, msg.UserID, msg.Cost)
		if err != nil {
			// transient gateway failure: propagate so the delivery is retried
			return fmt.Errorf("capture for trip %d: %w", msg.TripID, err)
		}

		if ok {
			if err := p.MarkCompleted(uuid.NewString()); err != nil {
				return err
			}
		} else {
			// a declined capture is a terminal outcome, not a retry
			if err := p.MarkFailed(); err != nil {
				return err
			}
		}

		err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
			return service.paymentRepo.CreatePayment(txCtx, p)
		})
		if err != nil {
			if errors.Is(err, ports.ErrDuplicatePayment) {
				return idempotency.ErrAlreadyApplied
			}
			return err
		}

		settled = p
		return nil
	}

	applied, err := idempotency.Apply(ctx, processed, effect)
	if err != nil {
		service.logger.Error(ctx, "payment_settle_failed", "Failed to settle trip payment", err, map[string]any{
			"trip_id":    msg.TripID,
			"user_id":    msg.UserID,
			"request_id": msg.CorrelationID,
		})
		return err
	}
	if !applied {
		service.logger.Debug(ctx, "payment_duplicate_dropped", "Trip already settled, dropping redelivery", map[string]any{
			"trip_id":    msg.TripID,
			"request_id": msg.CorrelationID,
		})
		return nil
	}

	service.logger.Info(ctx, "payment_settled", fmt.Sprintf("Payment for trip %d settled", msg.TripID), map[string]any{
		"trip_id":    msg.TripID,
		"user_id":    msg.UserID,
		"amount":     settled.Amount,
		"status":     settled.Status.String(),
		"request_id": msg.CorrelationID,
	})

	// publish after the payment row is committed; failures are logged only,
	// the settlement itself already succeeded
	if err := service.publishPaymentProcessed(ctx, settled, msg.CorrelationID); err != nil {
		service.logger.Error(ctx, "payment_processed_publish_failed", "Failed to publish payment result to RabbitMQ", err, map[string]any{
			"trip_id":    msg.TripID,
			"request_id": msg.CorrelationID,
		})
	}

	return nil
}

// publishPaymentProcessed sends the settlement outcome to the payment topic
// exchange using routing key payment.processed.{trip_id}.
func (service *paymentService) publishPaymentProcessed(ctx context.Context, p *payment.Payment, correlationID string) error {
	out := contracts.PaymentProcessedMessage{
		TripID:  p.TripID,
		UserID:  p.UserID,
		Amount:  p.Amount,
		Success: p.Succeeded(),
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      "payment-service",
			SentAt:        time.Now().UTC(),
		},
	}
	if p.TransactionID != nil {
		out.TransactionID = *p.TransactionID
	}

	routingKey := contracts.RoutePaymentProcessedPrefix + strconv.FormatInt(p.TripID, 10)
	if err := service.pub.PublishMessage(ctx, contracts.ExchangePaymentTopic, routingKey, out); err != nil {
		return err
	}

	service.logger.Info(ctx, "payment_processed_published", "Published payment result to RabbitMQ", map[string]any{
		"routing_key": routingKey,
		"success":     out.Success,
	})

	return nil
}

// GetPaymentByTrip fetches the payment settled for a trip.
func (service *paymentService) GetPaymentByTrip(ctx context.Context, tripID int64) (ports.PaymentView, error) {
	var view ports.PaymentView

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		p, err := service.paymentRepo.GetByTripID(txCtx, tripID)
		if err != nil {
			return err
		}
		view = ports.PaymentView{
			PaymentID:     p.ID,
			TripID:        p.TripID,
			UserID:        p.UserID,
			Amount:        p.Amount,
			Status:        p.Status.String(),
			TransactionID: p.TransactionID,
		}
		return nil
	})
	if err != nil {
		return ports.PaymentView{}, err
	}

	return view, nil
}
