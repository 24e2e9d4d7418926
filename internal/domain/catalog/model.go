package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicportal/portal/pkg/money"
)

var (
	ErrNotFound      = errors.New("treatment option not found")
	ErrDuplicateName = errors.New("treatment option already exists")
	ErrInvalid       = errors.New("invalid treatment option")
)

// TreatmentOption is a bookable service with its daily slot list.
type TreatmentOption struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Slots     []string  `json:"slots"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Specialty is the name-only projection served to the doctor form.
type Specialty struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

// Validate trims the option in place and checks it can be offered.
func (o *TreatmentOption) Validate() error {
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := money.ValidPrice(o.Price); err != nil {
		return err
	}
	if len(o.Slots) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(o.Slots))
	for i, s := range o.Slots {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("%w: slot %d is empty", ErrInvalid, i)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate slot %q", ErrInvalid, s)
		}
		seen[s] = true
		o.Slots[i] = s
	}
	return nil
}

// HasSlot reports whether slot is one of the option's slots.
func (o *TreatmentOption) HasSlot(slot string) bool {
	for _, s := range o.Slots {
		if s == slot {
			return true
		}
	}
	return false
}
