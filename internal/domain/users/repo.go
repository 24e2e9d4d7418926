package users

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) error
}
