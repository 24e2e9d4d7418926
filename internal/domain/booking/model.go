package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrInvalid          = errors.New("invalid booking")
	ErrDuplicateBooking = errors.New("duplicate booking")
	ErrSlotTaken        = errors.New("slot already booked")
)

// Booking reserves one slot of a treatment on a date for a patient email.
type Booking struct {
	ID              uuid.UUID `json:"_id"`
	Treatment       string    `json:"treatment"`
	AppointmentDate string    `json:"appointmentDate"`
	Slot            string    `json:"slot"`
	Patient         string    `json:"patient"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Price           float64   `json:"price"`
	Paid            bool      `json:"paid"`
	TransactionID   *string   `json:"transactionId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"-"`
}

// Normalize trims free-text fields and lowercases the email.
func (b *Booking) Normalize() {
	b.Treatment = strings.TrimSpace(b.Treatment)
	b.AppointmentDate = strings.TrimSpace(b.AppointmentDate)
	b.Slot = strings.TrimSpace(b.Slot)
	b.Patient = strings.TrimSpace(b.Patient)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.Phone = strings.TrimSpace(b.Phone)
}

func (b *Booking) Validate() error {
	switch {
	case b.Treatment == "":
		return fmt.Errorf("%w: treatment is required", ErrInvalid)
	case b.AppointmentDate == "":
		return fmt.Errorf("%w: appointmentDate is required", ErrInvalid)
	case b.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalid)
	case b.Slot == "":
		return fmt.Errorf("%w: slot is required", ErrInvalid)
	}
	return nil
}

// ConflictError names the treatment and date a rejected booking collided on.
type ConflictError struct {
	Kind            error
	Treatment       string
	AppointmentDate string
	Slot            string
}

func (e *ConflictError) Error() string {
	if e.Kind == ErrSlotTaken {
		return fmt.Sprintf("%s is already booked for %s on %s", e.Slot, e.Treatment, e.AppointmentDate)
	}
	return fmt.Sprintf("You have already an appointment for %s on %s", e.Treatment, e.AppointmentDate)
}

func (e *ConflictError) Unwrap() error { return e.Kind }
