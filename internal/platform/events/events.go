// Package events publishes domain events about bookings and payments to a
// RabbitMQ topic exchange. Delivery is best effort: a failed publish is logged
// by the caller and never fails the request that produced the event.
package events

import "context"

// Routing keys.
const (
	BookingCreatedKey  = "booking.created"
	PaymentRecordedKey = "payment.recorded"
)

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

type BookingCreated struct {
	BookingID       string `json:"bookingId"`
	Treatment       string `json:"treatment"`
	AppointmentDate string `json:"appointmentDate"`
	Slot            string `json:"slot"`
	Email           string `json:"email"`
}

type PaymentRecorded struct {
	PaymentID     string `json:"paymentId"`
	BookingID     string `json:"bookingId"`
	Email         string `json:"email"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transactionId"`
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishJSON(context.Context, string, any) error { return nil }
func (Noop) Close() error { return nil }
