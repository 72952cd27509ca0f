// Package gateway holds the payment-capture collaborator implementations.
package gateway

import (
	"context"

	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/ports"
)

// Simulated approves every capture. It stands in for a real processor
// integration and exists so the settlement path exercises the same
// success/decline contract a production gateway would.
type Simulated struct {
	logger *logger.Logger
}

// NewSimulated constructs the simulated gateway.
func NewSimulated(logger *logger.Logger) ports.CaptureGateway {
	return &Simulated{logger: logger}
}

// Capture always approves.
func (g *Simulated) Capture(ctx context.Context, tripID, userID int64, amount float64) (bool, error) {
	g.logger.Info(ctx, "capture_simulated", "Simulated payment capture approved", map[string]any{
		"trip_id": tripID,
		"user_id": userID,
		"amount":  amount,
	})
	return true, nil
}
