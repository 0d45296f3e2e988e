package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/saludigital/cadastro/pkg/sanitizer"
	"github.com/saludigital/cadastro/pkg/validator"
)

// Password policy. bcrypt only hashes the first 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Provider is the contract with the identity backend.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) (*User, error)
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is an authenticated user plus the bearer token that proves it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

// ValidateCredentials checks a login request before it reaches the provider.
// The returned email is trimmed and lowercased.
func ValidateCredentials(email, password string) (string, error) {
	email = sanitizer.NormalizeEmail(email)
	err := validator.Apply(
		validator.Required("email", email),
		validator.ValidEmail("email", email),
		validator.Required("password", password),
	)
	return email, err
}

// ValidatePassword enforces the password policy. Failures match both
// ErrWeakPassword and validator.ErrValidationFailed.
func ValidatePassword(password string) error {
	err := validator.Apply(
		validator.Required("password", strings.TrimSpace(password)),
		validator.PasswordLength("password", password, MinPasswordLength, MaxPasswordLength),
	)
	if err != nil {
		return errors.Join(ErrWeakPassword, err)
	}
	return nil
}
