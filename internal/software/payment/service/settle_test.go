package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"taxi-trips/internal/domain/payment"
	"taxi-trips/internal/general/contracts"
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/ports"
)

// ----- fakes -----

type fakeUoW struct{}

func (fakeUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakePaymentRepo mimics the unique constraint on payments.trip_id.
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[int64]*payment.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]*payment.Payment)}
}

func (r *fakePaymentRepo) CreatePayment(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.TripID]; ok {
		return ports.ErrDuplicatePayment
	}
	stored := *p
	stored.ID = int64(len(r.payments) + 1)
	r.payments[p.TripID] = &stored
	p.ID = stored.ID
	return nil
}

func (r *fakePaymentRepo) ExistsByTripID(ctx context.Context, tripID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.payments[tripID]
	return ok, nil
}

func (r *fakePaymentRepo) GetByTripID(ctx context.Context, tripID int64) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[tripID]
	if !ok {
		return nil, ports.ErrPaymentNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

type fakeGateway struct {
	mu    sync.Mutex
	ok    bool
	err   error
	calls int
}

func (g *fakeGateway) Capture(ctx context.Context, tripID, userID int64, amount float64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.ok, g.err
}

func (g *fakeGateway) captureCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type publishedMessage struct {
	exchange   string
	routingKey string
	payload    any
}

type fakePublisher struct {
	mu        sync.Mutex
	err       error
	published []publishedMessage
}

func (p *fakePublisher) PublishMessage(ctx context.Context, exchange, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedMessage{exchange: exchange, routingKey: routingKey, payload: payload})
	return nil
}

func (p *fakePublisher) messages() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedMessage, len(p.published))
	copy(out, p.published)
	return out
}

// ----- helpers -----

func newTestService(repo *fakePaymentRepo, gw *fakeGateway, pub *fakePublisher) *paymentService {
	svc := NewPaymentService(logger.New("payment-service-test"), fakeUoW{}, repo, gw, pub, nil, 1)
	return svc.(*paymentService)
}

func completedMsg(tripID int64) contracts.TripCompletedMessage {
	return contracts.TripCompletedMessage{
		TripID:       tripID,
		UserID:       7,
		DriverID:     3,
		UserEmail:    "rider@example.com",
		PickupLabel:  "Airport",
		DropoffLabel: "Center",
		Cost:         39.00,
		DistanceKM:   10,
	}
}

// ----- tests -----

func TestSettleTripCreatesPaymentAndPublishes(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: true}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	if err := svc.SettleTrip(context.Background(), completedMsg(42)); err != nil {
		t.Fatalf("SettleTrip: %v", err)
	}

	p, err := repo.GetByTripID(context.Background(), 42)
	if err != nil {
		t.Fatalf("payment missing: %v", err)
	}
	if p.Status != payment.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", p.Status)
	}
	if p.TransactionID == nil || *p.TransactionID == "" {
		t.Fatal("completed payment has no transaction id")
	}
	if p.Amount != 39.00 {
		t.Fatalf("amount = %v, want 39.00", p.Amount)
	}

	msgs := pub.messages()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	if msgs[0].exchange != contracts.ExchangePaymentTopic || msgs[0].routingKey != "payment.processed.42" {
		t.Fatalf("published to %s (%s)", msgs[0].exchange, msgs[0].routingKey)
	}
	out, ok := msgs[0].payload.(contracts.PaymentProcessedMessage)
	if !ok {
		t.Fatalf("payload type %T", msgs[0].payload)
	}
	if !out.Success || out.TransactionID == "" || out.TripID != 42 {
		t.Fatalf("payload = %+v", out)
	}
}

func TestSettleTripRedeliveryIsNoOp(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: true}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	msg := completedMsg(42)
	for i := 0; i < 5; i++ {
		if err := svc.SettleTrip(context.Background(), msg); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}

	if repo.count() != 1 {
		t.Fatalf("payments = %d, want 1", repo.count())
	}
	if gw.captureCalls() != 1 {
		t.Fatalf("gateway captured %d times, want 1", gw.captureCalls())
	}
	if len(pub.messages()) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages()))
	}
}

func TestSettleTripConcurrentDeliveries(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: true}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	const deliveries = 16
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.SettleTrip(context.Background(), completedMsg(42)); err != nil {
				t.Errorf("SettleTrip: %v", err)
			}
		}()
	}
	wg.Wait()

	if repo.count() != 1 {
		t.Fatalf("payments = %d, want 1", repo.count())
	}
	if got := len(pub.messages()); got != 1 {
		t.Fatalf("published %d messages, want 1", got)
	}
}

func TestSettleTripCaptureDeclined(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: false}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	if err := svc.SettleTrip(context.Background(), completedMsg(42)); err != nil {
		t.Fatalf("SettleTrip: %v", err)
	}

	p, err := repo.GetByTripID(context.Background(), 42)
	if err != nil {
		t.Fatalf("payment missing: %v", err)
	}
	if p.Status != payment.StatusFailed {
		t.Fatalf("status = %s, want FAILED", p.Status)
	}
	if p.TransactionID != nil {
		t.Fatalf("failed payment has transaction id %q", *p.TransactionID)
	}

	msgs := pub.messages()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	out := msgs[0].payload.(contracts.PaymentProcessedMessage)
	if out.Success || out.TransactionID != "" {
		t.Fatalf("payload = %+v, want success=false without transaction id", out)
	}
}

func TestSettleTripGatewayErrorPropagates(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{err: errors.New("gateway timeout")}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	err := svc.SettleTrip(context.Background(), completedMsg(42))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	// nothing was persisted or published, so the redelivery starts clean
	if repo.count() != 0 {
		t.Fatalf("payments = %d, want 0", repo.count())
	}
	if len(pub.messages()) != 0 {
		t.Fatalf("published %d messages, want 0", len(pub.messages()))
	}
}

func TestSettleTripPublishFailureDoesNotFailSettlement(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: true}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(repo, gw, pub)

	if err := svc.SettleTrip(context.Background(), completedMsg(42)); err != nil {
		t.Fatalf("SettleTrip: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("payments = %d, want 1", repo.count())
	}
}

func TestHandleTripCompletedDropsMalformedPayload(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: true}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	cases := [][]byte{
		[]byte("not json"),
		[]byte(`{"trip_id": 0}`),
		[]byte(`{}`),
	}
	for _, body := range cases {
		if err := svc.handleTripCompleted(context.Background(), body); err != nil {
			t.Fatalf("malformed payload %q returned error: %v", body, err)
		}
	}
	if repo.count() != 0 {
		t.Fatalf("payments = %d, want 0", repo.count())
	}
}

func TestHandleTripCompletedSettlesValidPayload(t *testing.T) {
	repo := newFakePaymentRepo()
	gw := &fakeGateway{ok: true}
	pub := &fakePublisher{}
	svc := newTestService(repo, gw, pub)

	body := []byte(`{"trip_id":42,"user_id":7,"driver_id":3,"user_email":"rider@example.com","cost":39.0,"distance_km":10}`)
	if err := svc.handleTripCompleted(context.Background(), body); err != nil {
		t.Fatalf("handleTripCompleted: %v", err)
	}
	if repo.count() != 1 {
		t.Fatalf("payments = %d, want 1", repo.count())
	}
	if !strings.HasPrefix(pub.messages()[0].routingKey, contracts.RoutePaymentProcessedPrefix) {
		t.Fatalf("routing key = %s", pub.messages()[0].routingKey)
	}
}
