package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicportal/portal/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Create(ctx context.Context, p *PaymentRecord) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO payments (id, booking_id, email, amount, currency, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.BookingID, p.Email, p.Amount, p.Currency, p.TransactionID,
	).Scan(&p.CreatedAt)
}

func (r *repoPG) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*PaymentRecord, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, booking_id, email, amount, currency, transaction_id, created_at
		FROM payments WHERE booking_id = $1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PaymentRecord
	for rows.Next() {
		var p PaymentRecord
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Email, &p.Amount, &p.Currency, &p.TransactionID, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}
