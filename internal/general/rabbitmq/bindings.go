package rabbitmq

import (
	"fmt"

	"taxi-trips/internal/general/contracts"

	amqp "github.com/rabbitmq/amqp091-go"
)

func declareTopology(ch *amqp.Channel) error {
	// 1. Exchanges
	exchanges := []struct {
		name string
		kind string
	}{
		{contracts.ExchangeTripTopic, "topic"},
		{contracts.ExchangePaymentTopic, "topic"},
	}

	for _, ex := range exchanges {
		if err := ch.ExchangeDeclare(ex.name, ex.kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	// 2. Queues
	queues := []string{
		contracts.QueueTripCompletedPayment,
		contracts.QueueTripCompletedNotification,
		contracts.QueuePaymentProcessed,
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	// 3. Bindings. Binding two queues to the same "trip.completed.*" pattern
	// fans every completion event out to the payment and notification
	// pipelines while keeping each queue an independent consumer group.
	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{contracts.QueueTripCompletedPayment, contracts.ExchangeTripTopic, contracts.RouteTripCompletedPrefix + "*"},
		{contracts.QueueTripCompletedNotification, contracts.ExchangeTripTopic, contracts.RouteTripCompletedPrefix + "*"},
		{contracts.QueuePaymentProcessed, contracts.ExchangePaymentTopic, contracts.RoutePaymentProcessedPrefix + "*"},
	}

	for _, b := range bindings {
		if err := ch.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}
