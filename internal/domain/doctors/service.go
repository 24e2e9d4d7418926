package doctors

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
	return &Service{repo: repo, logger: logger.With().Str("component", "doctors").Logger()}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	s.logger.Info().Str("doctor_id", d.ID.String()).Str("specialty", d.Specialty).Msg("doctor added")
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	if items == nil {
		items = []*Doctor{}
	}
	return items, total, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("doctor_id", id.String()).Msg("doctor removed")
	return nil
}
