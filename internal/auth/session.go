// Package auth holds the signed-in session shared by every command that talks to the backend.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// expiryLeeway makes a token count as expired slightly before it actually is,
// so it does not run out while a request is in flight.
const expiryLeeway = 30 * time.Second

// ErrNoRefreshToken is returned when an expired session cannot be renewed.
var ErrNoRefreshToken = errors.New("session has no refresh token")

type User struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
}

// Session is what the auth provider issues and what is persisted between runs.
type Session struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
	User         User      `yaml:"user"`
}

// Provider issues, refreshes and revokes sessions.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Store persists a session between runs. Load returns nil without error when nothing is stored.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// Valid reports whether the session carries a token that is not expired at now.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || strings.TrimSpace(s.AccessToken) == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(s.ExpiresAt.Add(-expiryLeeway))
}

// fillFromClaims completes user identity and expiry from the access token
// when the provider did not return them.
func (s *Session) fillFromClaims() {
	if s.User.ID != "" && s.User.Email != "" && !s.ExpiresAt.IsZero() {
		return
	}

	claims, err := ParseClaims(s.AccessToken)
	if err != nil {
		return
	}

	if s.User.ID == "" {
		s.User.ID = claims.Subject
	}
	if s.User.Email == "" {
		s.User.Email = claims.Email
	}
	if s.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
}
