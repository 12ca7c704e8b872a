package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/auth"
	"github.com/spigell/resume-tailor/internal/gate"
	"github.com/spigell/resume-tailor/internal/inventory"
)

const (
	revokedToken = "revoked-token"
	freshToken   = "fresh-token"
)

type tokenProvider struct {
	mu      sync.Mutex
	signIns int
	err     error
}

func (p *tokenProvider) SignIn(_ context.Context, email, _ string) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signIns++
	if p.err != nil {
		return nil, p.err
	}
	return &auth.Session{
		AccessToken:  freshToken,
		RefreshToken: "refresh",
		User:         auth.User{ID: "u1", Email: email},
	}, nil
}

func (p *tokenProvider) Refresh(context.Context, string) (*auth.Session, error) {
	return nil, errors.New("refresh is not expected")
}

func (p *tokenProvider) SignOut(context.Context, string) error { return nil }

type sessionStore struct {
	mu      sync.Mutex
	session *auth.Session
}

func (s *sessionStore) Load() (*auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *sessionStore) Save(session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *sessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// experiencesBackend answers only requests carrying the fresh token, everything else gets 401.
type experiencesBackend struct {
	mu      sync.Mutex
	deleted []string
}

func (b *experiencesBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+freshToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == api.ExperiencesPath:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"experiences": []map[string]any{
				{"id": "42", "type": "work", "title": "Engineer at Acme", "content": "Built billing"},
			},
		})
	case r.Method == http.MethodDelete:
		b.mu.Lock()
		b.deleted = append(b.deleted, r.URL.Path)
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// revokedApplication returns an application whose stored session the backend no longer accepts.
func revokedApplication(t *testing.T, provider *tokenProvider) (*application, *experiencesBackend, *bytes.Buffer) {
	t.Helper()

	backend := &experiencesBackend{}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	passwordFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("secret\n"), 0o600))

	store := &sessionStore{session: &auth.Session{
		AccessToken:  revokedToken,
		RefreshToken: "refresh",
		User:         auth.User{ID: "u1", Email: "ada@example.com"},
	}}
	holder := auth.NewHolder(provider, store, nil)
	require.NoError(t, holder.Init(context.Background()))
	require.Equal(t, gate.Authenticated, gate.Current(holder))

	out := &bytes.Buffer{}
	a := &application{
		config: &Config{Auth: &AuthConfig{Email: "ada@example.com", PasswordFile: passwordFile}},
		logger: zap.NewNop(),
		holder: holder,
		client: api.New(nil, holder, server.URL),
		out:    out,
	}

	return a, backend, out
}

func TestLoadInventorySignsInAgainAfterRejectedSession(t *testing.T) {
	provider := &tokenProvider{}
	a, _, out := revokedApplication(t, provider)

	m, err := a.loadInventory(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Session expired. Please sign in again.")
	assert.Contains(t, out.String(), "Signed in as ada@example.com")
	assert.Equal(t, 1, provider.signIns)
	assert.Equal(t, gate.Authenticated, gate.Current(a.holder))
	require.Len(t, m.Items(), 1)
	assert.Equal(t, "42", m.Items()[0].ID)
}

func TestLoadInventoryFailsWhenSignInFails(t *testing.T) {
	provider := &tokenProvider{err: errors.New("invalid login credentials")}
	a, _, out := revokedApplication(t, provider)

	m, err := a.loadInventory(context.Background())
	require.Error(t, err)
	assert.Nil(t, m)

	assert.Contains(t, out.String(), "Session expired. Please sign in again.")
	assert.Contains(t, out.String(), "Sign in failed")
	assert.NotContains(t, out.String(), "No experiences yet.")
	assert.Equal(t, gate.Unauthenticated, gate.Current(a.holder))
}

func TestDeleteExperienceSignsInAgainAndRetries(t *testing.T) {
	provider := &tokenProvider{}
	a, backend, out := revokedApplication(t, provider)
	m := inventory.New(a.client, nil)

	require.NoError(t, a.deleteExperience(context.Background(), m, "42", nil))

	assert.Contains(t, out.String(), "Session expired. Please sign in again.")
	assert.Equal(t, 1, provider.signIns)
	assert.Equal(t, []string{api.ExperiencesPath + "/42"}, backend.deleted)
}
