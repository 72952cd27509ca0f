package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"taxi-trips/internal/general/contracts"
	"taxi-trips/internal/general/logger"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *fakeMailer) mails() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

func newTestService(m *fakeMailer) *notificationService {
	svc := NewNotificationService(logger.New("notification-service-test"), m, nil, 1)
	return svc.(*notificationService)
}

func summaryMsg() contracts.TripCompletedMessage {
	return contracts.TripCompletedMessage{
		TripID:       42,
		UserID:       7,
		DriverID:     3,
		UserEmail:    "rider@example.com",
		PickupLabel:  "Airport",
		DropoffLabel: "Center",
		Cost:         39.00,
		DistanceKM:   10,
		StartTime:    time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 3, 10, 23, 5, 0, 0, time.UTC),
	}
}

func TestNotifyTripCompletedSendsSummary(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	if err := svc.NotifyTripCompleted(context.Background(), summaryMsg()); err != nil {
		t.Fatalf("NotifyTripCompleted: %v", err)
	}

	mails := m.mails()
	if len(mails) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mails))
	}
	mail := mails[0]
	if mail.to != "rider@example.com" {
		t.Fatalf("to = %s", mail.to)
	}
	if !strings.Contains(mail.subject, "42") {
		t.Fatalf("subject %q does not name the trip", mail.subject)
	}
	for _, want := range []string{"Airport", "Center", "10.00 km", "39.00"} {
		if !strings.Contains(mail.body, want) {
			t.Errorf("body missing %q:\n%s", want, mail.body)
		}
	}
}

func TestNotifyTripCompletedSwallowsMailerFailure(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp refused")}
	svc := newTestService(m)

	// best effort: a mailer failure must not surface as a handler error,
	// otherwise the broker would redeliver forever
	if err := svc.NotifyTripCompleted(context.Background(), summaryMsg()); err != nil {
		t.Fatalf("mailer failure surfaced: %v", err)
	}
}

func TestHandleTripCompletedDropsMalformedPayload(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	cases := [][]byte{
		[]byte("not json"),
		[]byte(`{"trip_id": 0, "user_email": "rider@example.com"}`),
		[]byte(`{"trip_id": 42}`), // no recipient
	}
	for _, body := range cases {
		if err := svc.handleTripCompleted(context.Background(), body); err != nil {
			t.Fatalf("malformed payload %q returned error: %v", body, err)
		}
	}
	if len(m.mails()) != 0 {
		t.Fatalf("sent %d mails for malformed payloads", len(m.mails()))
	}
}

func TestHandleTripCompletedSendsForValidPayload(t *testing.T) {
	m := &fakeMailer{}
	svc := newTestService(m)

	body := []byte(`{"trip_id":42,"user_id":7,"user_email":"rider@example.com","pickup_label":"Airport","dropoff_label":"Center","cost":39.0,"distance_km":10}`)
	if err := svc.handleTripCompleted(context.Background(), body); err != nil {
		t.Fatalf("handleTripCompleted: %v", err)
	}
	if len(m.mails()) != 1 {
		t.Fatalf("sent %d mails, want 1", len(m.mails()))
	}
}
