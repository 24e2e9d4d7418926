package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalid         = errors.New("invalid payment")
)

// PaymentRecord is an insert-only receipt of a confirmed payment.
type PaymentRecord struct {
	ID            uuid.UUID `json:"_id"`
	BookingID     uuid.UUID `json:"bookingId"`
	Email         string    `json:"email"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IntentInput is the booking the client wants to pay for. CardToken is only
// sent by clients of gateways that charge a browser-side card token.
type IntentInput struct {
	BookingID string  `json:"_id"`
	Email     string  `json:"email"`
	Price     float64 `json:"price"`
	CardToken string  `json:"cardToken,omitempty"`
}

// Confirmation is what the client posts after the provider accepted the card.
// Email is accepted for compatibility and ignored: the receipt always goes to
// the booking's owner.
type Confirmation struct {
	BookingID   string `json:"bookingId"`
	Transaction string `json:"transaction"`
	Email       string `json:"email,omitempty"`
}
