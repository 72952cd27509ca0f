package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublishMessage publishes a JSON message to the given exchange with the routing key.
// The publish is mandatory and persistent, and the call waits for the broker's
// confirm before returning.
func (client *Client) PublishMessage(ctx context.Context, exchange, routingKey string, payload any) error {
	// serialize the payload
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq: failed to marshal payload: %w", err)
	}

	// publishing and waiting on confirms is serialized; the confirms channel
	// delivers acks in publish order, so interleaved publishers would race
	client.pubMu.Lock()
	defer client.pubMu.Unlock()

	// snapshot the current channel and confirms stream
	client.mu.RLock()
	ch := client.pubChan
	confirms := client.pubConfirms
	client.mu.RUnlock()

	if ch == nil || ch.IsClosed() {
		return fmt.Errorf("rabbitmq: publish channel unavailable")
	}

	// publish with mandatory=true so unroutable messages come back via NotifyReturn
	err = ch.PublishWithContext(ctx, exchange, routingKey, true, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish to %s (%s) failed: %w", exchange, routingKey, err)
	}

	// wait for the broker confirm
	select {
	case confirmation, ok := <-confirms:
		if !ok {
			return fmt.Errorf("rabbitmq: confirms channel closed before ack")
		}
		if !confirmation.Ack {
			return fmt.Errorf("rabbitmq: broker nacked publish to %s (%s)", exchange, routingKey)
		}
	case <-ctx.Done():
		return fmt.Errorf("rabbitmq: waiting for publish confirm: %w", ctx.Err())
	}

	return nil
}
