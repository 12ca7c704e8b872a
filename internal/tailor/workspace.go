// Package tailor holds the state of one tailoring session: the job description,
// the ranked matches, the selection and the generated bullets.
package tailor

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/experience"
)

const (
	SearchLimit     = 10
	bulletsPerMatch = 2

	// MaxBullets caps how many bullets are requested regardless of the selection size.
	MaxBullets = 6
)

var ErrEmptySelection = errors.New("select at least one experience")

// Backend is the part of the API client the workspace uses.
type Backend interface {
	Search(ctx context.Context, query string, limit int) (*api.SearchResult, error)
	Generate(ctx context.Context, req api.GenerateRequest) ([]string, error)
}

// Notifier shows non-blocking notices to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

type Workspace struct {
	backend  Backend
	notifier Notifier
	logger   *zap.Logger

	mu             sync.Mutex
	jobDescription string
	matches        []experience.Match
	selection      Selection
	bullets        []string
}

func New(backend Backend, notifier Notifier, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}

	return &Workspace{
		backend:   backend,
		notifier:  notifier,
		logger:    logger,
		selection: newSelection(),
	}
}

// BulletCount is how many bullets to request for n selected experiences.
func BulletCount(n int) int {
	return min(n*bulletsPerMatch, MaxBullets)
}

// Search ranks experiences against the job description. Bullets and the
// selection are cleared before the request; on success the matches are
// replaced and the strong ones selected. On failure the previous matches stay.
//
// Searches are not sequenced: if two overlap, the last one to finish wins.
func (w *Workspace) Search(ctx context.Context, jobDescription string) error {
	w.mu.Lock()
	w.jobDescription = jobDescription
	w.bullets = nil
	w.selection = newSelection()
	w.mu.Unlock()

	result, err := w.backend.Search(ctx, jobDescription, SearchLimit)
	if err != nil {
		w.logger.Debug("search failed", zap.Error(err))
		return err
	}

	matches := result.Results
	if matches == nil {
		matches = []experience.Match{}
	}

	w.mu.Lock()
	w.matches = matches
	w.selection = strongSelection(matches)
	selected := w.selection.Len()
	w.mu.Unlock()

	w.logger.Debug("search finished", zap.Int("matches", len(matches)), zap.Int("preselected", selected))

	if result.Message != "" {
		w.notifier.Notify(result.Message)
	}

	return nil
}

// Toggle flips the selection of a matched experience. Ids that are not in the
// current matches are ignored and false is returned.
func (w *Workspace) Toggle(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.matched(id) {
		return false
	}
	w.selection.toggle(id)
	return true
}

// SelectAll selects every current match.
func (w *Workspace) SelectAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := newSelection()
	for _, m := range w.matches {
		s.ids[m.ID] = struct{}{}
	}
	w.selection = s
}

func (w *Workspace) SelectNone() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = newSelection()
}

// Generate asks for bullets from the selected experiences. With nothing
// selected it returns ErrEmptySelection without contacting the backend.
func (w *Workspace) Generate(ctx context.Context) error {
	w.mu.Lock()
	ids := w.selection.ordered(w.matches)
	jobDescription := w.jobDescription
	w.mu.Unlock()

	if len(ids) == 0 {
		return ErrEmptySelection
	}

	bullets, err := w.backend.Generate(ctx, api.GenerateRequest{
		JobDescription: jobDescription,
		ExperienceIDs:  ids,
		NumBullets:     BulletCount(len(ids)),
	})
	if err != nil {
		return err
	}

	if bullets == nil {
		bullets = []string{}
	}

	w.mu.Lock()
	w.bullets = bullets
	w.mu.Unlock()

	return nil
}

func (w *Workspace) JobDescription() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.jobDescription
}

// Matches returns a copy of the current matches in backend order.
func (w *Workspace) Matches() []experience.Match {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]experience.Match(nil), w.matches...)
}

// Selected returns the selected ids in match order.
func (w *Workspace) Selected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.ordered(w.matches)
}

func (w *Workspace) IsSelected(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Has(id)
}

func (w *Workspace) Bullets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.bullets...)
}

func (w *Workspace) matched(id string) bool {
	for _, m := range w.matches {
		if m.ID == id {
			return true
		}
	}
	return false
}
