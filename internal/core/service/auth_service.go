package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

const invalidResetToken = "Token is invalid or has expired"

// AuthService implements registration, login, session refresh and password
// reset.
type AuthService struct {
	users     ports.UserRepository
	tokens    *TokenManager
	ledger    ports.ResetLedger
	mailer    ports.Mailer
	clientURL string
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens *TokenManager,
	ledger ports.ResetLedger,
	mailer ports.Mailer,
	clientURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		ledger:    ledger,
		mailer:    mailer,
		clientURL: strings.TrimRight(clientURL, "/"),
		log:       log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Validation("All fields are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.Conflict("User with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("User with this email already exists")
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, ports.TokenPair, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ports.TokenPair{}, domain.Validation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ports.TokenPair{}, domain.Unauthenticated("Invalid email or password")
		}
		return nil, ports.TokenPair{}, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ports.TokenPair{}, domain.Unauthenticated("Invalid email or password")
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, ports.TokenPair{}, fmt.Errorf("login: %w", err)
	}
	return user, pair, nil
}

// Refresh rotates the token pair when refreshToken is the one last issued to
// its user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, ports.TokenPair{}, domain.Unauthenticated("Refresh token is required")
	}

	claims, err := s.tokens.Parse(refreshToken, TokenRefresh)
	if err != nil {
		return nil, ports.TokenPair{}, domain.Unauthenticated("Invalid or expired refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ports.TokenPair{}, domain.Unauthenticated("Invalid or expired refresh token")
		}
		return nil, ports.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != hashToken(refreshToken) {
		return nil, ports.TokenPair{}, domain.Unauthenticated("Refresh token has been revoked")
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, ports.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	return user, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, ""); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ForgotPassword mails a signed, single-use reset link to the account owner.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Validation("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("There is no user with that email address.")
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	token, err := s.tokens.IssueReset(user)
	if err != nil {
		return fmt.Errorf("forgot password: issue token: %w", err)
	}

	resetURL := s.clientURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		return domain.Unexpected("There was an error sending the email. Try again later.", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

// ResetPassword redeems a reset token. Tokens are rejected once used, once
// expired, or once the password they were issued against has changed.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return domain.Validation("Password is required")
	}

	claims, err := s.tokens.Parse(token, TokenReset)
	if err != nil {
		return domain.Validation(invalidResetToken)
	}

	used, err := s.ledger.IsUsed(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if used {
		return domain.Validation(invalidResetToken)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Validation(invalidResetToken)
		}
		return fmt.Errorf("reset password: %w", err)
	}
	if claims.Fingerprint != passwordFingerprint(user.PasswordHash) {
		return domain.Validation(invalidResetToken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("reset password: hash password: %w", err)
	}
	if err := s.users.SetPasswordHash(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	ttl := s.tokens.ResetTTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.ledger.MarkUsed(ctx, claims.ID, ttl); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record used reset token")
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// Authenticate resolves an access token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.Parse(accessToken, TokenAccess)
	if err != nil {
		return nil, domain.Unauthenticated("Unauthorized request - Invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthenticated("Unauthorized request - User not found")
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (ports.TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	hash := hashToken(refresh)
	if err := s.users.SetRefreshTokenHash(ctx, user.ID, hash); err != nil {
		return ports.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshTokenHash = hash
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
