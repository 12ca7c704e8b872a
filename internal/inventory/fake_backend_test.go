package inventory

import (
	"context"
	"sync"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/experience"
)

// fakeBackend keeps experiences in memory and records every call.
type fakeBackend struct {
	mu      sync.Mutex
	stored  []experience.Experience
	drafts  []experience.Experience
	calls   []string
	created []experience.Experience
	batches [][]experience.Experience

	listErr   error
	saveErr   error
	deleteErr error
	parseErr  error
	parsed    []api.LinkedInText
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) ListExperiences(context.Context) ([]experience.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]experience.Experience(nil), f.stored...), nil
}

func (f *fakeBackend) CreateExperience(_ context.Context, exp experience.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.created = append(f.created, exp)
	f.stored = append(f.stored, exp)
	return nil
}

func (f *fakeBackend) UpdateExperience(_ context.Context, exp experience.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update")
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.stored {
		if f.stored[i].ID == exp.ID {
			f.stored[i] = exp
		}
	}
	return nil
}

func (f *fakeBackend) DeleteExperience(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.stored[:0]
	for _, exp := range f.stored {
		if exp.ID != id {
			kept = append(kept, exp)
		}
	}
	f.stored = kept
	return nil
}

func (f *fakeBackend) BatchCreateExperiences(_ context.Context, exps []experience.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("batch")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.batches = append(f.batches, exps)
	f.stored = append(f.stored, exps...)
	return nil
}

func (f *fakeBackend) ParseLinkedIn(_ context.Context, text api.LinkedInText) ([]experience.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("parse")
	f.parsed = append(f.parsed, text)
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return append([]experience.Experience(nil), f.drafts...), nil
}

func (f *fakeBackend) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}
