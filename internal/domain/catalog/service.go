package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "catalog").Logger()}
}

func (s *Service) List(ctx context.Context) ([]*TreatmentOption, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list treatment options: %w", err)
	}
	return items, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*TreatmentOption, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *Service) Names(ctx context.Context) ([]Specialty, error) {
	items, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	if items == nil {
		items = []Specialty{}
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, o *TreatmentOption) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}
	s.logger.Info().Str("option_id", o.ID.String()).Str("name", o.Name).Msg("treatment option created")
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("option_id", id.String()).Msg("treatment option deleted")
	return nil
}
