package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicportal/portal/internal/platform/db"
)

// Constraint names from migrations/001_portal.sql.
const (
	patientDayConstraint = "bookings_patient_day_uniq"
	slotConstraint       = "bookings_slot_uniq"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const bookingCols = `id, treatment, appointment_date, slot, patient, email, phone,
	price, paid, transaction_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.Treatment, &b.AppointmentDate, &b.Slot, &b.Patient, &b.Email, &b.Phone,
		&b.Price, &b.Paid, &b.TransactionID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.New()
	b.Paid = false
	b.TransactionID = nil
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO bookings (id, treatment, appointment_date, slot, patient, email, phone, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		b.ID, b.Treatment, b.AppointmentDate, b.Slot, b.Patient, b.Email, b.Phone, b.Price,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return conflictFor(err, b)
}

// conflictFor turns a violation of one of the admission indexes into a
// ConflictError for b. Any other error is returned unchanged.
func conflictFor(err error, b *Booking) error {
	constraint, ok := db.IsUniqueViolation(err)
	if !ok {
		return err
	}
	var kind error
	switch constraint {
	case patientDayConstraint:
		kind = ErrDuplicateBooking
	case slotConstraint:
		kind = ErrSlotTaken
	default:
		return err
	}
	return &ConflictError{Kind: kind, Treatment: b.Treatment, AppointmentDate: b.AppointmentDate, Slot: b.Slot}
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *repoPG) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	return r.list(ctx, `SELECT `+bookingCols+` FROM bookings WHERE email = $1 ORDER BY created_at`, email)
}

func (r *repoPG) ListByDate(ctx context.Context, date string) ([]*Booking, error) {
	return r.list(ctx, `SELECT `+bookingCols+` FROM bookings WHERE appointment_date = $1`, date)
}

func (r *repoPG) list(ctx context.Context, query string, arg string) ([]*Booking, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *repoPG) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (*Booking, error) {
	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE bookings SET paid = TRUE, transaction_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+bookingCols, id, transactionID))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return b, err
}
