package payment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *PaymentRecord) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*PaymentRecord, error)
}
