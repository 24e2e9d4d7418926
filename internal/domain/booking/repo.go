package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts b. Unique index violations surface as *ConflictError.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
	ListByDate(ctx context.Context, date string) ([]*Booking, error)
	// MarkPaid sets paid and the transaction id on an existing booking.
	// It never inserts; a missing booking yields ErrNotFound.
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (*Booking, error)
}
