package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Holder keeps the current session. It is created once per process and passed
// to everything that needs a token.
type Holder struct {
	provider Provider
	store    Store
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	session *Session
	loading bool
}

// NewHolder returns a holder in the loading state. Call Init to resolve it.
func NewHolder(provider Provider, store Store, logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Holder{
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
		loading:  true,
	}
}

// Init restores the persisted session, refreshing it when the access token
// has expired. Whatever happens, the holder stops loading.
func (h *Holder) Init(ctx context.Context) error {
	defer h.setLoading(false)

	if h.store == nil {
		return nil
	}

	stored, err := h.store.Load()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if stored == nil {
		h.logger.Debug("no stored session")
		return nil
	}

	stored.fillFromClaims()
	if stored.Valid(h.now()) {
		h.setSession(stored)
		return nil
	}

	h.logger.Debug("stored session expired, refreshing", zap.String("user", stored.User.Email))

	refreshed, err := h.refresh(ctx, stored)
	if err != nil {
		h.logger.Warn("refreshing stored session", zap.Error(err))
		if clearErr := h.store.Clear(); clearErr != nil {
			h.logger.Warn("clearing stale session", zap.Error(clearErr))
		}
		return nil
	}

	h.setSession(refreshed)
	return nil
}

// Loading reports whether the initial session check is still running.
func (h *Holder) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// User returns the signed-in user or nil.
func (h *Holder) User() *User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil {
		return nil
	}
	user := h.session.User
	return &user
}

// SignIn authenticates against the provider and persists the new session.
func (h *Holder) SignIn(ctx context.Context, email, password string) error {
	if h.provider == nil {
		return errors.New("auth provider is not configured")
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	session, err := h.provider.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	session.fillFromClaims()

	if err := h.persist(session); err != nil {
		return err
	}

	h.setSession(session)
	h.logger.Info("signed in", zap.String("user", session.User.Email))
	return nil
}

// SignOut drops the session locally and asks the provider to revoke it.
// Revocation failures are only logged: locally the user is signed out anyway.
func (h *Holder) SignOut(ctx context.Context) error {
	h.mu.Lock()
	session := h.session
	h.session = nil
	h.mu.Unlock()

	if session != nil && h.provider != nil {
		if err := h.provider.SignOut(ctx, session.AccessToken); err != nil {
			h.logger.Warn("revoking session at provider", zap.Error(err))
		}
	}

	if h.store != nil {
		if err := h.store.Clear(); err != nil {
			return fmt.Errorf("clearing stored session: %w", err)
		}
	}

	h.logger.Debug("signed out")
	return nil
}

// AccessToken returns a usable bearer token, or "" when there is no session.
// An expired token is refreshed first; if that fails the holder signs out.
func (h *Holder) AccessToken(ctx context.Context) string {
	h.mu.RLock()
	session := h.session
	h.mu.RUnlock()

	if session == nil {
		return ""
	}
	if session.Valid(h.now()) {
		return session.AccessToken
	}

	refreshed, err := h.refresh(ctx, session)
	if err != nil {
		h.logger.Warn("refreshing expired session", zap.Error(err))
		if err := h.SignOut(ctx); err != nil {
			h.logger.Warn("signing out", zap.Error(err))
		}
		return ""
	}

	h.setSession(refreshed)
	return refreshed.AccessToken
}

func (h *Holder) refresh(ctx context.Context, session *Session) (*Session, error) {
	if h.provider == nil {
		return nil, errors.New("auth provider is not configured")
	}
	if strings.TrimSpace(session.RefreshToken) == "" {
		return nil, ErrNoRefreshToken
	}

	refreshed, err := h.provider.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	refreshed.fillFromClaims()

	if refreshed.User.Email == "" {
		refreshed.User = session.User
	}

	if err := h.persist(refreshed); err != nil {
		return nil, err
	}

	return refreshed, nil
}

func (h *Holder) persist(session *Session) error {
	if h.store == nil {
		return nil
	}
	if err := h.store.Save(session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (h *Holder) setSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = session
}

func (h *Holder) setLoading(loading bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = loading
}
