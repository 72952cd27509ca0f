package contracts

import "time"

// TripCompletedMessage is published by the trip service exactly once per trip
// when the lifecycle reaches COMPLETED.
// Routing key: "trip.completed.{trip_id}" on ExchangeTripTopic.
//
// Consumers must treat delivery as at-least-once: the broker may redeliver
// after an unacked timeout, a consumer restart, or a rolling deployment.
type TripCompletedMessage struct {
	TripID       int64     `json:"trip_id"`
	UserID       int64     `json:"user_id"`
	DriverID     int64     `json:"driver_id"`
	UserEmail    string    `json:"user_email"`
	PickupLabel  string    `json:"pickup_label"`
	DropoffLabel string    `json:"dropoff_label"`
	Cost         float64   `json:"cost"`
	DistanceKM   float64   `json:"distance_km"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Envelope
}
