package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicportal/portal/internal/domain/booking"
	"github.com/clinicportal/portal/internal/platform/db"
	"github.com/clinicportal/portal/internal/platform/events"
	"github.com/clinicportal/portal/internal/platform/gateway"
	"github.com/clinicportal/portal/pkg/money"
)

// Bookings is the part of the booking ledger the reconciler writes to.
type Bookings interface {
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (*booking.Booking, error)
}

type Service struct {
	payments Repository
	bookings Bookings
	tx       db.TxRunner
	gateway  gateway.Gateway
	events   events.Publisher
	currency string
	logger   zerolog.Logger
}

func NewService(payments Repository, bookings Bookings, tx db.TxRunner, gw gateway.Gateway,
	pub events.Publisher, currency string, logger zerolog.Logger) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		payments: payments,
		bookings: bookings,
		tx:       tx,
		gateway:  gw,
		events:   pub,
		currency: strings.ToLower(currency),
		logger:   logger.With().Str("component", "payment").Logger(),
	}
}

// CreateIntent asks the gateway for a card-only intent of round(price*100)
// minor units. Nothing is stored.
func (s *Service) CreateIntent(ctx context.Context, in IntentInput) (gateway.Intent, error) {
	amount, err := money.MinorUnits(in.Price)
	if err != nil {
		return gateway.Intent{}, err
	}

	intent, err := s.gateway.CreateIntent(ctx, gateway.IntentRequest{
		BookingID:          in.BookingID,
		Email:              in.Email,
		Amount:             amount,
		Currency:           s.currency,
		PaymentMethodTypes: []string{"card"},
		CardToken:          strings.TrimSpace(in.CardToken),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", in.BookingID).Int64("amount", amount).Msg("payment intent failed")
		return gateway.Intent{}, err
	}

	s.logger.Info().Str("booking_id", in.BookingID).Str("intent_id", intent.ID).Int64("amount", amount).Msg("payment intent created")
	return intent, nil
}

// Confirm marks the booking paid and stores a PaymentRecord in one
// transaction. A booking that does not exist is never created.
func (s *Service) Confirm(ctx context.Context, in Confirmation) (*PaymentRecord, error) {
	in.Transaction = strings.TrimSpace(in.Transaction)
	if in.Transaction == "" {
		return nil, fmt.Errorf("%w: transaction is required", ErrInvalid)
	}
	bookingID, err := uuid.Parse(strings.TrimSpace(in.BookingID))
	if err != nil {
		return nil, ErrBookingNotFound
	}

	var rec *PaymentRecord
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.MarkPaid(ctx, bookingID, in.Transaction)
		if errors.Is(err, booking.ErrNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("mark booking paid: %w", err)
		}

		amount, err := money.MinorUnits(b.Price)
		if err != nil {
			return fmt.Errorf("booking %s price: %w", b.ID, err)
		}
		rec = &PaymentRecord{
			BookingID:     b.ID,
			Email:         b.Email,
			Amount:        amount,
			Currency:      s.currency,
			TransactionID: in.Transaction,
		}
		if err := s.payments.Create(ctx, rec); err != nil {
			return fmt.Errorf("insert payment record: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrBookingNotFound) {
			s.logger.Error().Err(err).Str("booking_id", bookingID.String()).Msg("payment reconciliation failed")
		}
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", bookingID.String()).
		Str("payment_id", rec.ID.String()).
		Str("transaction_id", rec.TransactionID).
		Msg("payment reconciled")

	evt := events.PaymentRecorded{
		PaymentID:     rec.ID.String(),
		BookingID:     rec.BookingID.String(),
		Email:         rec.Email,
		Amount:        rec.Amount,
		Currency:      rec.Currency,
		TransactionID: rec.TransactionID,
	}
	if err := s.events.PublishJSON(ctx, events.PaymentRecordedKey, evt); err != nil {
		s.logger.Warn().Err(err).Str("payment_id", rec.ID.String()).Msg("publish payment.recorded")
	}
	return rec, nil
}
