package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// SupabaseProvider authenticates users against a Supabase project.
type SupabaseProvider struct {
	client gotrue.Client
}

// NewSupabaseProvider creates a provider for the project at url using its public anon key.
func NewSupabaseProvider(url, anonKey string) (*SupabaseProvider, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("auth url is required")
	}

	anonKey = strings.TrimSpace(anonKey)
	if anonKey == "" {
		return nil, errors.New("auth anon key is required")
	}

	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &SupabaseProvider{client: client.Auth}, nil
}

func (p *SupabaseProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	resp, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, err
	}
	return sessionFromToken(resp), nil
}

func (p *SupabaseProvider) Refresh(_ context.Context, refreshToken string) (*Session, error) {
	resp, err := p.client.RefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return sessionFromToken(resp), nil
}

func (p *SupabaseProvider) SignOut(_ context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return p.client.WithToken(accessToken).Logout()
}

func sessionFromToken(resp *types.TokenResponse) *Session {
	session := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         User{Email: resp.User.Email},
	}

	if resp.User.ID != uuid.Nil {
		session.User.ID = resp.User.ID.String()
	}

	switch {
	case resp.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		session.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return session
}
