package service

import (
	"context"
	"fmt"
	"time"

	"taxi-trips/internal/general/contracts"
)

// NotifyTripCompleted renders a trip summary and hands it to the mailer.
// Delivery is best effort: a mailer failure is logged and swallowed, and a
// redelivered source event may send the summary twice. The user sees at worst
// a duplicate email, never a missing charge.
func (service *notificationService) NotifyTripCompleted(ctx context.Context, msg contracts.TripCompletedMessage) error {
	subject := fmt.Sprintf("Your trip #%d is complete", msg.TripID)
	body := renderTripSummary(msg)

	if err := service.mailer.Send(ctx, msg.UserEmail, subject, body); err != nil {
		service.logger.Error(ctx, "notification_send_failed", "Failed to send trip summary email", err, map[string]any{
			"trip_id":    msg.TripID,
			"to":         msg.UserEmail,
			"request_id": msg.CorrelationID,
		})
		return nil
	}

	service.logger.Info(ctx, "notification_sent", fmt.Sprintf("Trip %d summary sent", msg.TripID), map[string]any{
		"trip_id":    msg.TripID,
		"to":         msg.UserEmail,
		"request_id": msg.CorrelationID,
	})

	return nil
}

// renderTripSummary builds the plain-text email body.
func renderTripSummary(msg contracts.TripCompletedMessage) string {
	return fmt.Sprintf(
		"Dear customer,\n\n"+
			"your trip has been completed. Here is your summary:\n\n"+
			"Trip:     #%d\n"+
			"From:     %s\n"+
			"To:       %s\n"+
			"Distance: %.2f km\n"+
			"Started:  %s\n"+
			"Ended:    %s\n"+
			"Total:    %.2f\n\n"+
			"Thank you for riding with us.\n",
		msg.TripID,
		msg.PickupLabel,
		msg.DropoffLabel,
		msg.DistanceKM,
		msg.StartTime.UTC().Format(time.RFC1123),
		msg.EndTime.UTC().Format(time.RFC1123),
		msg.Cost,
	)
}
