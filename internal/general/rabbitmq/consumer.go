package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// handlerTimeout bounds how long a single delivery may be processed.
const handlerTimeout = 30 * time.Second

// DeliveryHandler processes one delivery body. A nil return acks the message.
// An error nacks it with requeue, so transient failures are redelivered.
type DeliveryHandler func(ctx context.Context, body []byte) error

// Consume opens a dedicated channel for the queue and dispatches deliveries to
// the handler until ctx is cancelled or the channel dies. On channel death the
// caller is expected to be running inside a retry loop (see ConsumeLoop).
func (client *Client) Consume(ctx context.Context, queue, consumerTag string, prefetch int, handler DeliveryHandler) error {
	client.mu.RLock()
	conn := client.conn
	client.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return fmt.Errorf("rabbitmq: connection unavailable")
	}

	// consumers get their own channel so publisher confirms stay isolated
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: failed to open consumer channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("rabbitmq: failed to set QoS: %w", err)
	}

	deliveries, err := ch.Consume(queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: failed to start consuming %s: %w", queue, err)
	}

	client.logger.Info(ctx, "rabbitmq_consumer_started", "Consumer started", map[string]any{
		"queue":    queue,
		"tag":      consumerTag,
		"prefetch": prefetch,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rabbitmq: delivery stream for %s closed", queue)
			}
			client.handleDelivery(ctx, queue, d, handler)
		}
	}
}

// ConsumeLoop keeps a consumer alive across reconnects, retrying with a short
// delay whenever Consume returns. It only exits when ctx is cancelled.
func (client *Client) ConsumeLoop(ctx context.Context, queue, consumerTag string, prefetch int, handler DeliveryHandler) {
	for {
		err := client.Consume(ctx, queue, consumerTag, prefetch, handler)

		select {
		case <-ctx.Done():
			return
		default:
		}

		client.logger.Error(ctx, "rabbitmq_consumer_stopped", "Consumer stopped, restarting", err, map[string]any{
			"queue": queue,
			"tag":   consumerTag,
		})

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (client *Client) handleDelivery(ctx context.Context, queue string, d amqp.Delivery, handler DeliveryHandler) {
	// bound each delivery so a stuck handler cannot stall the queue forever
	hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	err := handler(hctx, d.Body)
	if err != nil {
		// requeue so another (or the same) consumer retries the delivery
		client.logger.Error(ctx, "rabbitmq_handler_failed", "Delivery handler failed, requeueing", err, map[string]any{
			"queue":      queue,
			"routingKey": d.RoutingKey,
			"redelivery": d.Redelivered,
		})
		if nackErr := d.Nack(false, true); nackErr != nil {
			client.logger.Error(ctx, "rabbitmq_nack_failed", "Failed to nack delivery", nackErr, map[string]any{
				"queue": queue,
			})
		}
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		client.logger.Error(ctx, "rabbitmq_ack_failed", "Failed to ack delivery", ackErr, map[string]any{
			"queue": queue,
		})
	}
}
