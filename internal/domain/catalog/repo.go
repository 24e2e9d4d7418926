package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *TreatmentOption) error
	GetByName(ctx context.Context, name string) (*TreatmentOption, error)
	List(ctx context.Context) ([]*TreatmentOption, error)
	ListNames(ctx context.Context) ([]Specialty, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
