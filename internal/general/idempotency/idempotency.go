// Package idempotency captures the processed-check pattern shared by consumers
// of at-least-once delivery streams.
package idempotency

import (
	"context"
	"errors"
)

// ErrAlreadyApplied is returned by an effect that discovered mid-flight that
// the work was already done, typically by losing an insert race on a unique
// key. Apply treats it the same as a positive processed check.
var ErrAlreadyApplied = errors.New("effect already applied")

// Apply runs effect at most once per logical key.
//
// processed is the cheap existence check that catches ordinary redeliveries.
// It cannot catch two deliveries racing through it at the same time, so the
// effect itself must fail with ErrAlreadyApplied when it loses that race (for
// database-backed effects a unique constraint provides this).
//
// The returned bool reports whether the effect ran to completion in this call.
// A duplicate is not an error: (false, nil) means the work was already done.
func Apply(ctx context.Context, processed func(ctx context.Context) (bool, error), effect func(ctx context.Context) error) (bool, error) {
	done, err := processed(ctx)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	if err := effect(ctx); err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
