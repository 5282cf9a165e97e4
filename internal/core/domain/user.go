package domain

import (
	"strings"
	"time"
)

// User models an authenticated actor in the system.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	Specialization   string    `json:"specialization,omitempty"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserRef is the populated form of a user reference.
type UserRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// Ref returns the reference view of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Specialization: u.Specialization}
}

// NormalizeEmail lower-cases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
