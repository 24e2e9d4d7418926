package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicportal/portal/internal/domain/catalog"
	"github.com/clinicportal/portal/internal/platform/events"
)

// Catalog is the read side of the treatment catalog.
type Catalog interface {
	List(ctx context.Context) ([]*catalog.TreatmentOption, error)
	GetByName(ctx context.Context, name string) (*catalog.TreatmentOption, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	events  events.Publisher
	logger  zerolog.Logger
}

func NewService(repo Repository, cat Catalog, pub events.Publisher, logger zerolog.Logger) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{
		repo:    repo,
		catalog: cat,
		events:  pub,
		logger:  logger.With().Str("component", "booking").Logger(),
	}
}

// Availability returns the catalog with already-booked slots for date
// removed. An empty date subtracts nothing.
func (s *Service) Availability(ctx context.Context, date string) ([]*catalog.TreatmentOption, error) {
	options, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var booked []*Booking
	if date != "" {
		booked, err = s.repo.ListByDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("load bookings for %s: %w", date, err)
		}
	}
	return FreeSlots(options, booked), nil
}

// Submit admits b if its treatment and slot exist and the ledger's unique
// indexes accept it. b.Price is taken from the catalog, not the caller.
func (s *Service) Submit(ctx context.Context, b *Booking) error {
	b.Normalize()
	if err := b.Validate(); err != nil {
		return err
	}

	option, err := s.catalog.GetByName(ctx, b.Treatment)
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%w: unknown treatment %q", ErrInvalid, b.Treatment)
	}
	if err != nil {
		return fmt.Errorf("resolve treatment: %w", err)
	}
	if !option.HasSlot(b.Slot) {
		return fmt.Errorf("%w: %q is not a slot of %s", ErrInvalid, b.Slot, b.Treatment)
	}
	b.Price = option.Price

	if err := s.repo.Create(ctx, b); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.logger.Info().
				Str("treatment", b.Treatment).
				Str("date", b.AppointmentDate).
				Str("slot", b.Slot).
				Str("reason", conflict.Kind.Error()).
				Msg("booking rejected")
			return err
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	s.logger.Info().
		Str("booking_id", b.ID.String()).
		Str("treatment", b.Treatment).
		Str("date", b.AppointmentDate).
		Str("slot", b.Slot).
		Msg("booking admitted")

	evt := events.BookingCreated{
		BookingID:       b.ID.String(),
		Treatment:       b.Treatment,
		AppointmentDate: b.AppointmentDate,
		Slot:            b.Slot,
		Email:           b.Email,
	}
	if err := s.events.PublishJSON(ctx, events.BookingCreatedKey, evt); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("publish booking.created")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListForPatient(ctx context.Context, email string) ([]*Booking, error) {
	items, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if items == nil {
		items = []*Booking{}
	}
	return items, nil
}
