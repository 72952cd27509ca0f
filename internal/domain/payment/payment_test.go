package payment

import (
	"errors"
	"testing"
)

func TestNewPaymentStartsPending(t *testing.T) {
	p, err := NewPayment(42, 7, 39.00)
	if err != nil {
		t.Fatalf("NewPayment: %v", err)
	}
	if p.Status != StatusPending {
		t.Fatalf("status = %s, want %s", p.Status, StatusPending)
	}
	if p.TransactionID != nil {
		t.Fatalf("transaction id set before capture: %v", *p.TransactionID)
	}
}

func TestNewPaymentValidation(t *testing.T) {
	if _, err := NewPayment(0, 7, 10); !errors.Is(err, ErrTripRequired) {
		t.Fatalf("missing trip: err = %v", err)
	}
	if _, err := NewPayment(42, 0, 10); !errors.Is(err, ErrUserRequired) {
		t.Fatalf("missing user: err = %v", err)
	}
	if _, err := NewPayment(42, 7, -1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative amount: err = %v", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	p, _ := NewPayment(42, 7, 39.00)

	if err := p.MarkCompleted("txn-1"); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if p.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", p.Status, StatusCompleted)
	}
	if p.TransactionID == nil || *p.TransactionID != "txn-1" {
		t.Fatalf("transaction id = %v, want txn-1", p.TransactionID)
	}
	if !p.Succeeded() {
		t.Fatal("Succeeded() = false for completed payment")
	}
}

func TestMarkCompletedRequiresTransactionID(t *testing.T) {
	p, _ := NewPayment(42, 7, 39.00)
	if err := p.MarkCompleted("   "); !errors.Is(err, ErrTransactionRequired) {
		t.Fatalf("err = %v, want ErrTransactionRequired", err)
	}
	if p.Status != StatusPending {
		t.Fatalf("status changed on failed mark: %s", p.Status)
	}
}

func TestMarkFailed(t *testing.T) {
	p, _ := NewPayment(42, 7, 39.00)

	if err := p.MarkFailed(); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if p.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", p.Status, StatusFailed)
	}
	if p.TransactionID != nil {
		t.Fatalf("failed payment has transaction id: %v", *p.TransactionID)
	}
	if p.Succeeded() {
		t.Fatal("Succeeded() = true for failed payment")
	}
}

func TestSettledPaymentsAreImmutable(t *testing.T) {
	completed, _ := NewPayment(42, 7, 39.00)
	_ = completed.MarkCompleted("txn-1")

	failed, _ := NewPayment(43, 7, 39.00)
	_ = failed.MarkFailed()

	for _, p := range []*Payment{completed, failed} {
		if err := p.MarkCompleted("txn-2"); !errors.Is(err, ErrAlreadySettled) {
			t.Fatalf("re-complete in %s: err = %v", p.Status, err)
		}
		if err := p.MarkFailed(); !errors.Is(err, ErrAlreadySettled) {
			t.Fatalf("re-fail in %s: err = %v", p.Status, err)
		}
	}
}
