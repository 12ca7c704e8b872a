// Package inventory manages the user's stored experiences: the local cache,
// the edit form and the LinkedIn import flow.
package inventory

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/experience"
)

// ErrDeleteCancelled is returned when the user did not confirm a deletion.
var ErrDeleteCancelled = errors.New("deletion cancelled")

// Backend is the part of the API client the inventory uses.
type Backend interface {
	ListExperiences(ctx context.Context) ([]experience.Experience, error)
	CreateExperience(ctx context.Context, exp experience.Experience) error
	UpdateExperience(ctx context.Context, exp experience.Experience) error
	DeleteExperience(ctx context.Context, id string) error
	BatchCreateExperiences(ctx context.Context, exps []experience.Experience) error
	ParseLinkedIn(ctx context.Context, text api.LinkedInText) ([]experience.Experience, error)
}

// ConfirmFunc asks the user to confirm an action.
type ConfirmFunc func(message string) (bool, error)

// Manager keeps a local copy of the inventory. After create and update the
// whole list is fetched again; after delete the record is dropped locally
// without a refetch.
type Manager struct {
	backend Backend
	logger  *zap.Logger

	mu    sync.RWMutex
	items []experience.Experience
}

func New(backend Backend, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{backend: backend, logger: logger}
}

// Refresh reloads the inventory. Failures are logged and the previous list is kept.
func (m *Manager) Refresh(ctx context.Context) {
	items, err := m.backend.ListExperiences(ctx)
	if err != nil {
		m.logger.Warn("fetching experiences", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()

	m.logger.Debug("fetched experiences", zap.Int("count", len(items)))
}

// Items returns a copy of the cached inventory.
func (m *Manager) Items() []experience.Experience {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]experience.Experience(nil), m.items...)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Find returns the cached experience with the id, or nil.
func (m *Manager) Find(id string) *experience.Experience {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, exp := range m.items {
		if exp.ID == id {
			found := exp
			return &found
		}
	}
	return nil
}

// Save validates the form and creates or updates the record it describes.
// Nothing is sent when validation fails. On success the inventory is refetched.
func (m *Manager) Save(ctx context.Context, form *Form) (*experience.Experience, error) {
	exp, err := form.Experience()
	if err != nil {
		return nil, err
	}

	if form.Editing() {
		err = m.backend.UpdateExperience(ctx, *exp)
	} else {
		err = m.backend.CreateExperience(ctx, *exp)
	}
	if err != nil {
		return nil, err
	}

	m.logger.Info("saved experience",
		zap.String("id", exp.ID),
		zap.String("title", exp.Title),
		zap.Bool("update", form.Editing()),
	)

	m.Refresh(ctx)
	return exp, nil
}

// Delete removes the experience after confirm agrees. On success the record
// disappears from the cache immediately; on failure the cache is left alone.
func (m *Manager) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm != nil {
		ok, err := confirm("Are you sure you want to delete this experience?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrDeleteCancelled
		}
	}

	if err := m.backend.DeleteExperience(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	kept := make([]experience.Experience, 0, len(m.items))
	for _, exp := range m.items {
		if exp.ID != id {
			kept = append(kept, exp)
		}
	}
	m.items = kept
	m.mu.Unlock()

	m.logger.Info("deleted experience", zap.String("id", id))
	return nil
}

// create stores a new experience built from a draft and refetches the inventory.
func (m *Manager) create(ctx context.Context, draft experience.Experience) (*experience.Experience, error) {
	form := FormFromDraft(draft)
	return m.Save(ctx, form)
}

// createAll stores all drafts in one request and refetches the inventory.
func (m *Manager) createAll(ctx context.Context, drafts []experience.Experience) error {
	exps := make([]experience.Experience, 0, len(drafts))
	for i, draft := range drafts {
		exp, err := FormFromDraft(draft).Experience()
		if err != nil {
			return &InvalidDraftError{Index: i, Title: draft.Title, Err: err}
		}
		exps = append(exps, *exp)
	}

	if err := m.backend.BatchCreateExperiences(ctx, exps); err != nil {
		return err
	}

	m.logger.Info("saved parsed experiences", zap.Int("count", len(exps)))
	m.Refresh(ctx)
	return nil
}
