package doctors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("doctor not found")
	ErrInvalid  = errors.New("invalid doctor")
)

type Doctor struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Specialty string    `json:"specialty"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *Doctor) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Specialty = strings.TrimSpace(d.Specialty)
	d.Image = strings.TrimSpace(d.Image)

	switch {
	case d.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case d.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalid)
	case d.Specialty == "":
		return fmt.Errorf("%w: specialty is required", ErrInvalid)
	}
	return nil
}
