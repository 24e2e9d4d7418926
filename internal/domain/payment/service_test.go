package payment

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicportal/portal/internal/domain/booking"
	"github.com/clinicportal/portal/internal/platform/events"
	"github.com/clinicportal/portal/internal/platform/gateway"
	"github.com/clinicportal/portal/pkg/money"
)

// -- Mocks --

type mockPaymentRepo struct {
	mu      sync.Mutex
	records []*PaymentRecord
	err     error
}

func (m *mockPaymentRepo) Create(_ context.Context, p *PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.records = append(m.records, p)
	return nil
}

func (m *mockPaymentRepo) ListByBooking(_ context.Context, id uuid.UUID) ([]*PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*PaymentRecord
	for _, p := range m.records {
		if p.BookingID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockBookings only updates rows that exist, like the conditional UPDATE.
type mockBookings struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
}

func (m *mockBookings) MarkPaid(_ context.Context, id uuid.UUID, tx string) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	b.Paid = true
	b.TransactionID = &tx
	cp := *b
	return &cp, nil
}

// txRecorder counts transactions and rolls the booking map back when fn
// fails, as the database would.
type txRecorder struct {
	calls    int
	bookings *mockBookings
}

func (r *txRecorder) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	snapshot := r.bookings.snapshot()
	if err := fn(ctx); err != nil {
		r.bookings.restore(snapshot)
		return err
	}
	return nil
}

func (m *mockBookings) snapshot() map[uuid.UUID]booking.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]booking.Booking, len(m.bookings))
	for id, b := range m.bookings {
		out[id] = *b
	}
	return out
}

func (m *mockBookings) restore(snap map[uuid.UUID]booking.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = make(map[uuid.UUID]*booking.Booking, len(snap))
	for id, b := range snap {
		b := b
		m.bookings[id] = &b
	}
}

type fakeGateway struct {
	requests []gateway.IntentRequest
	err      error
}

func (g *fakeGateway) CreateIntent(_ context.Context, req gateway.IntentRequest) (gateway.Intent, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return gateway.Intent{}, g.err
	}
	return gateway.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc      *Service
	payments *mockPaymentRepo
	bookings *mockBookings
	tx       *txRecorder
	gw       *fakeGateway
	pub      *recordingPublisher
	booked   uuid.UUID
}

func newFixture() *fixture {
	id := uuid.New()
	f := &fixture{
		payments: &mockPaymentRepo{},
		bookings: &mockBookings{bookings: map[uuid.UUID]*booking.Booking{
			id: {ID: id, Treatment: "Cleaning", AppointmentDate: "2024-01-01", Slot: "9am", Email: "pat@x.com", Price: 50},
		}},
		gw:     &fakeGateway{},
		pub:    &recordingPublisher{},
		booked: id,
	}
	f.tx = &txRecorder{bookings: f.bookings}
	f.svc = NewService(f.payments, f.bookings, f.tx, f.gw, f.pub, "USD", zerolog.Nop())
	return f
}

func TestService_CreateIntent_AmountInMinorUnits(t *testing.T) {
	f := newFixture()
	intent, err := f.svc.CreateIntent(context.Background(), IntentInput{BookingID: f.booked.String(), Price: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.ClientSecret != "pi_1_secret" {
		t.Errorf("client secret must be returned verbatim, got %q", intent.ClientSecret)
	}
	if len(f.gw.requests) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(f.gw.requests))
	}
	req := f.gw.requests[0]
	if req.Amount != 5000 {
		t.Errorf("expected 5000 minor units, got %d", req.Amount)
	}
	if req.Currency != "usd" {
		t.Errorf("expected usd, got %q", req.Currency)
	}
	if !reflect.DeepEqual(req.PaymentMethodTypes, []string{"card"}) {
		t.Errorf("expected card only, got %v", req.PaymentMethodTypes)
	}
	if len(f.payments.records) != 0 || f.tx.calls != 0 {
		t.Error("creating an intent must not persist anything")
	}
}

func TestService_CreateIntent_InvalidPrice(t *testing.T) {
	f := newFixture()
	for _, price := range []float64{0, -1, 10.001} {
		_, err := f.svc.CreateIntent(context.Background(), IntentInput{Price: price})
		if !errors.Is(err, money.ErrInvalidAmount) {
			t.Errorf("price %v: expected ErrInvalidAmount, got %v", price, err)
		}
	}
	if len(f.gw.requests) != 0 {
		t.Error("gateway must not be called for invalid prices")
	}
}

func TestService_CreateIntent_GatewayFailure(t *testing.T) {
	f := newFixture()
	f.gw.err = errors.Join(gateway.ErrUpstream, errors.New("card network down"))

	_, err := f.svc.CreateIntent(context.Background(), IntentInput{Price: 50})
	if !errors.Is(err, gateway.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestService_Confirm(t *testing.T) {
	f := newFixture()
	rec, err := f.svc.Confirm(context.Background(), Confirmation{BookingID: f.booked.String(), Transaction: "tx1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := f.bookings.bookings[f.booked]
	if !b.Paid || b.TransactionID == nil || *b.TransactionID != "tx1" {
		t.Errorf("booking not reconciled: %+v", b)
	}
	records, _ := f.payments.ListByBooking(context.Background(), f.booked)
	if len(records) != 1 {
		t.Fatalf("expected exactly one payment record, got %d", len(records))
	}
	if records[0].ID != rec.ID || rec.TransactionID != "tx1" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Amount != 5000 || rec.Currency != "usd" || rec.Email != "pat@x.com" {
		t.Errorf("record must carry booking amount and email: %+v", rec)
	}
	if f.tx.calls != 1 {
		t.Errorf("expected one transaction, got %d", f.tx.calls)
	}
	if !reflect.DeepEqual(f.pub.keys, []string{events.PaymentRecordedKey}) {
		t.Errorf("expected payment.recorded event, got %v", f.pub.keys)
	}
}

func TestService_Confirm_UnknownBooking(t *testing.T) {
	f := newFixture()
	for _, id := range []string{uuid.New().String(), "not-an-id", ""} {
		_, err := f.svc.Confirm(context.Background(), Confirmation{BookingID: id, Transaction: "tx1"})
		if !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("booking %q: expected ErrBookingNotFound, got %v", id, err)
		}
	}
	if len(f.payments.records) != 0 {
		t.Error("no payment record may be written for a missing booking")
	}
	if len(f.bookings.bookings) != 1 {
		t.Error("confirmation must never create a booking")
	}
	if len(f.pub.keys) != 0 {
		t.Error("no event for failed confirmation")
	}
}

func TestService_Confirm_MissingTransaction(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Confirm(context.Background(), Confirmation{BookingID: f.booked.String(), Transaction: "  "})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if f.bookings.bookings[f.booked].Paid {
		t.Error("booking must stay unpaid")
	}
}

func TestService_Confirm_InsertFailure(t *testing.T) {
	f := newFixture()
	f.payments.err = errors.New("disk full")

	if _, err := f.svc.Confirm(context.Background(), Confirmation{BookingID: f.booked.String(), Transaction: "tx1"}); err == nil {
		t.Fatal("expected error")
	}
	if len(f.pub.keys) != 0 {
		t.Error("no event may be published when the transaction fails")
	}
	b := f.bookings.bookings[f.booked]
	if b.Paid || b.TransactionID != nil {
		t.Errorf("booking must stay unpaid after a failed insert: %+v", b)
	}
	if len(f.payments.records) != 0 {
		t.Error("no payment record may survive a failed transaction")
	}
}

func TestService_Confirm_EmailFromBooking(t *testing.T) {
	f := newFixture()
	rec, err := f.svc.Confirm(context.Background(), Confirmation{
		BookingID:   f.booked.String(),
		Transaction: "tx1",
		Email:       "attacker@evil.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Email != "pat@x.com" {
		t.Errorf("expected booking owner email, got %q", rec.Email)
	}
}

func TestService_CreateIntent_PassesCardToken(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateIntent(context.Background(), IntentInput{Price: 50, CardToken: " tokn_test_1 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.gw.requests[0].CardToken; got != "tokn_test_1" {
		t.Errorf("expected trimmed card token, got %q", got)
	}
}

func TestService_Confirm_RepeatAddsRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.Confirm(ctx, Confirmation{BookingID: f.booked.String(), Transaction: "tx1"})
	f.svc.Confirm(ctx, Confirmation{BookingID: f.booked.String(), Transaction: "tx2"})

	records, _ := f.payments.ListByBooking(ctx, f.booked)
	if len(records) != 2 {
		t.Errorf("expected two records, got %d", len(records))
	}
	if *f.bookings.bookings[f.booked].TransactionID != "tx2" {
		t.Error("expected latest transaction id on booking")
	}
}
