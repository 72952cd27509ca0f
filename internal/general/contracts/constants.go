package contracts

// Exchanges
const (
	ExchangeTripTopic    = "trip_topic"
	ExchangePaymentTopic = "payment_topic"
)

// Queues. Each trip_completed_* queue is an independent consumer group: both
// are bound to the same routing pattern, so every completion event is
// delivered to the payment pipeline and to the notification pipeline.
const (
	QueueTripCompletedPayment      = "trip_completed_payment"
	QueueTripCompletedNotification = "trip_completed_notification"
	QueuePaymentProcessed          = "payment_processed"
)

// Routing patterns. The trip id is appended as the last segment so the broker
// preserves per-trip ordering while fanning out across trips.
const (
	RouteTripCompletedPrefix    = "trip.completed."    // {trip_id}
	RoutePaymentProcessedPrefix = "payment.processed." // {trip_id}
)
