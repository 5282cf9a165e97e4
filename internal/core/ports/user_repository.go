package ports

import (
	"context"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// UserPatch lists the user fields an administrator may change. Nil fields are
// left untouched.
type UserPatch struct {
	Role           *domain.Role
	Specialization *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	// SetRefreshTokenHash stores hash; an empty hash clears it.
	SetRefreshTokenHash(ctx context.Context, id, hash string) error
	// SetPasswordHash replaces the password and clears any refresh token.
	SetPasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}
