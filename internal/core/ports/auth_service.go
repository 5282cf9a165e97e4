package ports

import (
	"context"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// TokenPair is issued on login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the fields of a self-registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements the account lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// Authenticator resolves an access token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}
