package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubMailer, *stubLedger) {
	t.Helper()
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	ledger := newStubLedger()
	tokens := NewTokenManager("secret", TokenTTLs{})
	svc := NewAuthService(repo, tokens, ledger, mailer, "http://localhost:5173/", zerolog.Nop())
	return svc, repo, mailer, ledger
}

func registerAlice(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com ",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	user := registerAlice(t, svc)
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Alice", Email: ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if got := domain.Message(err, ""); got != "All fields are required" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Other",
		Email:    "alice@example.com",
		Password: "x",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)
	alice := registerAlice(t, svc)

	user, pair, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != alice.ID {
		t.Fatalf("logged in as %s, want %s", user.ID, alice.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	stored, _ := repo.FindByID(context.Background(), alice.ID)
	if stored.RefreshTokenHash != hashToken(pair.RefreshToken) {
		t.Fatalf("refresh token hash not persisted")
	}

	authed, err := svc.Authenticate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if authed.ID != alice.ID {
		t.Fatalf("authenticated as %s, want %s", authed.ID, alice.ID)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	cases := map[string][2]string{
		"wrong password": {"alice@example.com", "nope"},
		"unknown email":  {"bob@example.com", "pass123"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc[0], tc[1])
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if got := domain.Message(err, ""); got != "Invalid email or password" {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	_, first, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	_, second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("expected a rotated refresh token")
	}

	if _, _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected superseded refresh token to be rejected, got %v", err)
	}
}

func TestAuthService_Logout_RevokesRefresh(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	alice := registerAlice(t, svc)

	_, pair, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := svc.Logout(context.Background(), alice.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected revoked refresh token, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsRefreshToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	_, pair, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected refresh token to be rejected as access token, got %v", err)
	}
}

func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)
	alice := registerAlice(t, svc)

	_, pair, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	_ = repo.Delete(context.Background(), alice.ID)

	_, err = svc.Authenticate(context.Background(), pair.AccessToken)
	if got := domain.Message(err, ""); got != "Unauthorized request - User not found" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func resetTokenFrom(t *testing.T, link string) string {
	t.Helper()
	const prefix = "http://localhost:5173/reset-password/"
	if !strings.HasPrefix(link, prefix) {
		t.Fatalf("unexpected reset link %q", link)
	}
	return strings.TrimPrefix(link, prefix)
}

func TestAuthService_PasswordReset(t *testing.T) {
	svc, _, mailer, ledger := newTestAuthService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if mailer.to != "alice@example.com" {
		t.Fatalf("mail sent to %q", mailer.to)
	}
	token := resetTokenFrom(t, mailer.link)

	if err := svc.ResetPassword(ctx, token, "newpass"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if len(ledger.used) != 1 {
		t.Fatalf("expected token to be recorded as used")
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "newpass"); err != nil {
		t.Fatalf("Login with new password returned error: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "pass123"); err == nil {
		t.Fatalf("expected old password to be rejected")
	}

	err := svc.ResetPassword(ctx, token, "again")
	if !errors.Is(err, domain.ErrValidation) || domain.Message(err, "") != "Token is invalid or has expired" {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}
}

func TestAuthService_PasswordReset_StaleAfterPasswordChange(t *testing.T) {
	svc, repo, mailer, _ := newTestAuthService(t)
	alice := registerAlice(t, svc)
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	token := resetTokenFrom(t, mailer.link)

	_ = repo.SetPasswordHash(ctx, alice.ID, "changed-elsewhere")

	if err := svc.ResetPassword(ctx, token, "newpass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected stale token to be rejected, got %v", err)
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthService_ForgotPassword_MailerFailure(t *testing.T) {
	svc, _, mailer, _ := newTestAuthService(t)
	registerAlice(t, svc)
	mailer.err = errors.New("smtp down")

	err := svc.ForgotPassword(context.Background(), "alice@example.com")
	if !errors.Is(err, domain.ErrUnexpected) {
		t.Fatalf("expected ErrUnexpected, got %v", err)
	}
	if got := domain.Message(err, ""); got != "There was an error sending the email. Try again later." {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", TokenTTLs{Access: time.Minute})
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.IssueAccess(&domain.User{ID: "u1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	if _, err := m.Parse(token, TokenAccess); err != nil {
		t.Fatalf("expected fresh token to parse, got %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.Parse(token, TokenAccess); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestTokenManager_WrongKey(t *testing.T) {
	token, err := NewTokenManager("secret", TokenTTLs{}).IssueAccess(&domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	if _, err := NewTokenManager("other", TokenTTLs{}).Parse(token, TokenAccess); err == nil {
		t.Fatalf("expected token signed with another key to be rejected")
	}
}

func TestTokenManager_Claims(t *testing.T) {
	m := NewTokenManager("secret", TokenTTLs{})
	token, err := m.IssueAccess(&domain.User{ID: "u1", Email: "a@b.c", Role: domain.RoleManager})
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	claims, err := m.Parse(token, TokenAccess)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != domain.RoleManager || claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}
}
