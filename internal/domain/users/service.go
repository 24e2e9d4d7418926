package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicportal/portal/internal/platform/auth"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "users").Logger()}
}

// Register stores u unless its email is known. The second return value is
// false when the user already existed. Self-registration never grants a role.
func (s *Service) Register(ctx context.Context, u *User) (bool, error) {
	u.Normalize()
	u.Role = ""
	if err := u.Validate(); err != nil {
		return false, err
	}
	err := s.repo.Create(ctx, u)
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return true, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	if items == nil {
		items = []*User{}
	}
	return items, total, nil
}

// RoleOf returns the stored role for email, or "" for unknown emails.
func (s *Service) RoleOf(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load role: %w", err)
	}
	return u.Role, nil
}

func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := s.RoleOf(ctx, email)
	if err != nil {
		return false, err
	}
	return role == auth.RoleAdmin, nil
}

// MakeAdmin elevates an existing user. It never creates one.
func (s *Service) MakeAdmin(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetRole(ctx, id, auth.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id.String()).Msg("user promoted to admin")
	return nil
}

var _ auth.RoleSource = (*Service)(nil)
