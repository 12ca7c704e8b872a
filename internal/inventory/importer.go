package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/experience"
)

var (
	// ErrNoImportText is returned when every pasted section is blank.
	ErrNoImportText = errors.New("paste text in at least one section")
	// ErrInvalidState is returned when an import operation is not allowed in the current state.
	ErrInvalidState = errors.New("operation not allowed in the current import state")
)

// InvalidDraftError is returned when a draft misses fields a saved experience
// needs. Nothing is sent; the draft has to be edited first.
type InvalidDraftError struct {
	// Index is the position of the draft in the review list.
	Index int
	Title string
	Err   error
}

func (e *InvalidDraftError) Error() string {
	return fmt.Sprintf("draft %d (%s): %v", e.Index+1, e.Title, e.Err)
}

func (e *InvalidDraftError) Unwrap() error {
	return e.Err
}

type ImportState int

const (
	// ImportEmpty waits for pasted text. A failed parse comes back here.
	ImportEmpty ImportState = iota
	ImportParsing
	// ImportReviewing holds zero or more drafts waiting to be saved.
	ImportReviewing
	// ImportClosed is terminal: drafts and text are gone.
	ImportClosed
)

func (s ImportState) String() string {
	switch s {
	case ImportEmpty:
		return "empty"
	case ImportParsing:
		return "parsing"
	case ImportReviewing:
		return "reviewing"
	case ImportClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// editedDraft is a draft taken out of the review list while its form is open.
type editedDraft struct {
	index int
	draft experience.Experience
}

// Import is one LinkedIn import session.
type Import struct {
	manager *Manager
	logger  *zap.Logger

	mu      sync.Mutex
	state   ImportState
	text    api.LinkedInText
	drafts  []experience.Experience
	editing *editedDraft
	err     error
}

// NewImport starts an import session whose saved drafts land in the manager's inventory.
func (m *Manager) NewImport() *Import {
	return &Import{
		manager: m,
		logger:  m.logger.With(zap.String("flow", "linkedin_import")),
		state:   ImportEmpty,
	}
}

func (i *Import) State() ImportState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Err returns the error of the last failed parse, if any.
func (i *Import) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

func (i *Import) Text() api.LinkedInText {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.text
}

// SetText replaces the pasted sections.
func (i *Import) SetText(text api.LinkedInText) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == ImportClosed || i.state == ImportParsing {
		return ErrInvalidState
	}
	i.text = text
	return nil
}

// Drafts returns the drafts waiting for review, without the one being edited.
func (i *Import) Drafts() []experience.Experience {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]experience.Experience(nil), i.drafts...)
}

// Parse sends the pasted text to the backend. A failure returns to the empty
// state keeping the text; success moves to reviewing with the parsed drafts.
func (i *Import) Parse(ctx context.Context) error {
	i.mu.Lock()
	if i.state != ImportEmpty {
		i.mu.Unlock()
		return ErrInvalidState
	}
	if blank(i.text) {
		i.err = ErrNoImportText
		i.mu.Unlock()
		return ErrNoImportText
	}
	i.state = ImportParsing
	i.err = nil
	text := i.text
	i.mu.Unlock()

	drafts, err := i.manager.backend.ParseLinkedIn(ctx, text)

	i.mu.Lock()
	defer i.mu.Unlock()

	// closed while the request was in flight
	if i.state == ImportClosed {
		return ErrInvalidState
	}

	if err != nil {
		i.state = ImportEmpty
		i.err = err
		return err
	}

	i.state = ImportReviewing
	i.drafts = drafts
	i.logger.Info("parsed linkedin text", zap.Int("drafts", len(drafts)))
	return nil
}

// EditDraft takes the draft at idx out of the review list and returns a form
// pre-filled with it. Only one draft can be edited at a time.
func (i *Import) EditDraft(idx int) (*Form, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != ImportReviewing || i.editing != nil {
		return nil, ErrInvalidState
	}
	if idx < 0 || idx >= len(i.drafts) {
		return nil, fmt.Errorf("draft %d does not exist", idx)
	}

	draft := i.drafts[idx]
	i.editing = &editedDraft{index: idx, draft: draft}
	i.drafts = remove(i.drafts, idx)

	return FormFromDraft(draft), nil
}

// Editing reports whether a draft is currently taken out for editing.
func (i *Import) Editing() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.editing != nil
}

// CancelEdit puts the edited draft back at its original position, unchanged.
func (i *Import) CancelEdit() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.editing == nil {
		return
	}
	i.drafts = insert(i.drafts, i.editing.index, i.editing.draft)
	i.editing = nil
}

// SaveEdit stores the edited draft as a new experience. On failure the draft
// stays out of the list so the form can be fixed and saved again or cancelled.
func (i *Import) SaveEdit(ctx context.Context, form *Form) error {
	i.mu.Lock()
	if i.state != ImportReviewing || i.editing == nil {
		i.mu.Unlock()
		return ErrInvalidState
	}
	i.mu.Unlock()

	// a draft never updates an existing record
	form.ID = ""
	if _, err := i.manager.Save(ctx, form); err != nil {
		return err
	}

	i.mu.Lock()
	i.editing = nil
	i.mu.Unlock()
	return nil
}

// SaveDraft stores the draft at idx as a new experience and removes only it from the list.
func (i *Import) SaveDraft(ctx context.Context, idx int) error {
	i.mu.Lock()
	if i.state != ImportReviewing {
		i.mu.Unlock()
		return ErrInvalidState
	}
	if idx < 0 || idx >= len(i.drafts) {
		i.mu.Unlock()
		return fmt.Errorf("draft %d does not exist", idx)
	}
	draft := i.drafts[idx]
	i.mu.Unlock()

	if err := FormFromDraft(draft).Validate(); err != nil {
		return &InvalidDraftError{Index: idx, Title: draft.Title, Err: err}
	}

	if _, err := i.manager.create(ctx, draft); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.removeDraft(idx, draft)
	return nil
}

// SaveAll stores every remaining draft in one request and empties the list.
func (i *Import) SaveAll(ctx context.Context) error {
	i.mu.Lock()
	if i.state != ImportReviewing {
		i.mu.Unlock()
		return ErrInvalidState
	}
	drafts := append([]experience.Experience(nil), i.drafts...)
	i.mu.Unlock()

	if len(drafts) == 0 {
		return nil
	}

	if err := i.manager.createAll(ctx, drafts); err != nil {
		return err
	}

	i.mu.Lock()
	i.drafts = nil
	i.mu.Unlock()
	return nil
}

// InvalidDrafts lists the drafts in the review list that cannot be saved as they are.
func (i *Import) InvalidDrafts() []InvalidDraftError {
	i.mu.Lock()
	defer i.mu.Unlock()

	var invalid []InvalidDraftError
	for idx, draft := range i.drafts {
		if err := FormFromDraft(draft).Validate(); err != nil {
			invalid = append(invalid, InvalidDraftError{Index: idx, Title: draft.Title, Err: err})
		}
	}
	return invalid
}

// Close discards every unsaved draft and the pasted text.
func (i *Import) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != ImportClosed && len(i.drafts) > 0 {
		i.logger.Debug("discarding drafts", zap.Int("count", len(i.drafts)))
	}

	i.state = ImportClosed
	i.text = api.LinkedInText{}
	i.drafts = nil
	i.editing = nil
	i.err = nil
}

// removeDraft drops the saved draft, looking it up again in case the list moved meanwhile.
func (i *Import) removeDraft(idx int, saved experience.Experience) {
	if idx < len(i.drafts) && sameDraft(i.drafts[idx], saved) {
		i.drafts = remove(i.drafts, idx)
		return
	}
	for j := range i.drafts {
		if sameDraft(i.drafts[j], saved) {
			i.drafts = remove(i.drafts, j)
			return
		}
	}
}

func blank(text api.LinkedInText) bool {
	return strings.TrimSpace(text.Experiences) == "" &&
		strings.TrimSpace(text.Projects) == "" &&
		strings.TrimSpace(text.Volunteering) == ""
}

func sameDraft(a, b experience.Experience) bool {
	return a.Title == b.Title && a.Type == b.Type && a.DateRange == b.DateRange && a.Content == b.Content
}

func remove(drafts []experience.Experience, idx int) []experience.Experience {
	result := make([]experience.Experience, 0, len(drafts)-1)
	result = append(result, drafts[:idx]...)
	return append(result, drafts[idx+1:]...)
}

func insert(drafts []experience.Experience, idx int, draft experience.Experience) []experience.Experience {
	if idx > len(drafts) {
		idx = len(drafts)
	}
	result := make([]experience.Experience, 0, len(drafts)+1)
	result = append(result, drafts[:idx]...)
	result = append(result, draft)
	return append(result, drafts[idx:]...)
}
