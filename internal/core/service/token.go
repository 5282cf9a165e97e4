package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

const tokenIssuer = "syncflow"

// TokenType distinguishes the purposes a signed token can serve.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	TokenReset   TokenType = "reset"
)

// Claims is the JWT payload of every SyncFlow token.
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email,omitempty"`
	Role        domain.Role `json:"role,omitempty"`
	Type        TokenType   `json:"typ"`
	Fingerprint string      `json:"fpr,omitempty"`
}

// TokenTTLs configures token lifetimes. Zero values fall back to defaults.
type TokenTTLs struct {
	Access  time.Duration
	Refresh time.Duration
	Reset   time.Duration
}

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	ttls   TokenTTLs
	now    func() time.Time
}

func NewTokenManager(secret string, ttls TokenTTLs) *TokenManager {
	if ttls.Access <= 0 {
		ttls.Access = 24 * time.Hour
	}
	if ttls.Refresh <= 0 {
		ttls.Refresh = 7 * 24 * time.Hour
	}
	if ttls.Reset <= 0 {
		ttls.Reset = 10 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttls: ttls, now: time.Now}
}

// ResetTTL returns the lifetime of password-reset tokens.
func (m *TokenManager) ResetTTL() time.Duration { return m.ttls.Reset }

func (m *TokenManager) IssueAccess(user *domain.User) (string, error) {
	return m.issue(user, TokenAccess, m.ttls.Access, func(c *Claims) {
		c.Email = user.Email
		c.Role = user.Role
	})
}

func (m *TokenManager) IssueRefresh(user *domain.User) (string, error) {
	return m.issue(user, TokenRefresh, m.ttls.Refresh, nil)
}

// IssueReset returns a reset token bound to the user's current password, so
// it stops verifying once the password changes.
func (m *TokenManager) IssueReset(user *domain.User) (string, error) {
	return m.issue(user, TokenReset, m.ttls.Reset, func(c *Claims) {
		c.Email = user.Email
		c.Fingerprint = passwordFingerprint(user.PasswordHash)
	})
}

func (m *TokenManager) issue(user *domain.User, typ TokenType, ttl time.Duration, extra func(*Claims)) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: typ,
	}
	if extra != nil {
		extra(claims)
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Parse verifies signature, expiry, issuer and purpose of a token.
func (m *TokenManager) Parse(token string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("parse token: invalid")
	}
	if claims.Type != want {
		return nil, fmt.Errorf("parse token: expected %s token, got %q", want, claims.Type)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("parse token: missing subject")
	}
	return claims, nil
}

// hashToken is how refresh tokens are stored at rest.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func passwordFingerprint(passwordHash string) string {
	return hashToken(passwordHash)[:16]
}
