package idempotency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestApplyRunsEffectOnce(t *testing.T) {
	var ran int
	applied, err := Apply(context.Background(),
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context) error { ran++; return nil },
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !applied {
		t.Fatal("applied = false, want true")
	}
	if ran != 1 {
		t.Fatalf("effect ran %d times, want 1", ran)
	}
}

func TestApplySkipsWhenProcessed(t *testing.T) {
	var ran int
	applied, err := Apply(context.Background(),
		func(ctx context.Context) (bool, error) { return true, nil },
		func(ctx context.Context) error { ran++; return nil },
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied {
		t.Fatal("applied = true for already-processed key")
	}
	if ran != 0 {
		t.Fatalf("effect ran %d times, want 0", ran)
	}
}

func TestApplyTreatsAlreadyAppliedAsNoOp(t *testing.T) {
	applied, err := Apply(context.Background(),
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context) error { return ErrAlreadyApplied },
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied {
		t.Fatal("applied = true for race-losing effect")
	}
}

func TestApplyPropagatesErrors(t *testing.T) {
	checkErr := errors.New("store down")
	if _, err := Apply(context.Background(),
		func(ctx context.Context) (bool, error) { return false, checkErr },
		func(ctx context.Context) error { return nil },
	); !errors.Is(err, checkErr) {
		t.Fatalf("check error = %v, want %v", err, checkErr)
	}

	effectErr := errors.New("insert failed")
	if _, err := Apply(context.Background(),
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context) error { return effectErr },
	); !errors.Is(err, effectErr) {
		t.Fatalf("effect error = %v, want %v", err, effectErr)
	}
}

// Simulates N deliveries racing through the processed check at once: the
// shared store admits exactly one insert, everyone else must observe a no-op.
func TestApplyConcurrentDeliveries(t *testing.T) {
	const deliveries = 32

	var inserted int32
	processed := func(ctx context.Context) (bool, error) {
		// always false: every goroutine passes the check, the insert decides
		return false, nil
	}
	effect := func(ctx context.Context) error {
		if !atomic.CompareAndSwapInt32(&inserted, 0, 1) {
			return ErrAlreadyApplied
		}
		return nil
	}

	var wg sync.WaitGroup
	var appliedCount int32
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := Apply(context.Background(), processed, effect)
			if err != nil {
				t.Errorf("Apply: %v", err)
				return
			}
			if applied {
				atomic.AddInt32(&appliedCount, 1)
			}
		}()
	}
	wg.Wait()

	if appliedCount != 1 {
		t.Fatalf("effect applied %d times across %d deliveries, want 1", appliedCount, deliveries)
	}
}
