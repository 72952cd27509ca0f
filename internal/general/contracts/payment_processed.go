package contracts

// PaymentProcessedMessage is published by the payment service after a trip's
// settlement reached a terminal outcome (COMPLETED or FAILED).
// Routing key: "payment.processed.{trip_id}" on ExchangePaymentTopic.
type PaymentProcessedMessage struct {
	TripID        int64   `json:"trip_id"`
	UserID        int64   `json:"user_id"`
	Amount        float64 `json:"amount"`
	Success       bool    `json:"success"`
	TransactionID string  `json:"transaction_id,omitempty"` // absent when the capture failed
	Envelope
}
