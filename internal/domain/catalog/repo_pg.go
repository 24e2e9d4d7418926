package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicportal/portal/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const optionCols = `id, name, price, slots, created_at, updated_at`

func scanOption(row pgx.Row) (*TreatmentOption, error) {
	var o TreatmentOption
	if err := row.Scan(&o.ID, &o.Name, &o.Price, &o.Slots, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repoPG) Create(ctx context.Context, o *TreatmentOption) error {
	o.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO treatment_options (id, name, price, slots)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		o.ID, o.Name, o.Price, o.Slots).Scan(&o.CreatedAt, &o.UpdatedAt)
	if _, ok := db.IsUniqueViolation(err); ok {
		return ErrDuplicateName
	}
	return err
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*TreatmentOption, error) {
	o, err := scanOption(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+optionCols+` FROM treatment_options WHERE name = $1`, name))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *repoPG) List(ctx context.Context) ([]*TreatmentOption, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+optionCols+` FROM treatment_options ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TreatmentOption
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

func (r *repoPG) ListNames(ctx context.Context) ([]Specialty, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, name FROM treatment_options ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Specialty
	for rows.Next() {
		var s Specialty
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM treatment_options WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
