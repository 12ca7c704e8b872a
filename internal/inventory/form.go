package inventory

import (
	"strings"

	"github.com/spigell/resume-tailor/internal/experience"
)

// Form is the add/edit form for a single experience.
type Form struct {
	// ID is empty when the form creates a new record.
	ID        string
	Type      experience.Type
	Title     string
	DateRange string
	Skills    []string
	Content   string
}

// NewForm returns an empty form for a new work experience.
func NewForm() *Form {
	return &Form{Type: experience.TypeWork, Skills: []string{}}
}

// EditForm returns a form pre-filled with an existing record.
func EditForm(exp experience.Experience) *Form {
	form := FormFromDraft(exp)
	form.ID = exp.ID
	return form
}

// FormFromDraft pre-fills a form for creating a new record from exp's fields.
func FormFromDraft(exp experience.Experience) *Form {
	t := exp.Type
	if t == "" {
		t = experience.TypeWork
	}
	return &Form{
		Type:      t,
		Title:     exp.Title,
		DateRange: exp.DateRange,
		Skills:    append([]string{}, exp.Skills...),
		Content:   exp.Content,
	}
}

// Editing reports whether the form updates an existing record.
func (f *Form) Editing() bool {
	return f.ID != ""
}

// AddSkill appends a trimmed skill unless it is blank or already present.
func (f *Form) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range f.Skills {
		if s == skill {
			return false
		}
	}
	f.Skills = append(f.Skills, skill)
	return true
}

func (f *Form) RemoveSkill(skill string) {
	kept := f.Skills[:0]
	for _, s := range f.Skills {
		if s != skill {
			kept = append(kept, s)
		}
	}
	f.Skills = kept
}

// Validate checks the required fields without sending anything.
func (f *Form) Validate() error {
	_, err := f.Experience()
	return err
}

// Experience builds the payload for the form. New records get a fresh id.
func (f *Form) Experience() (*experience.Experience, error) {
	exp := &experience.Experience{
		ID:        f.ID,
		Type:      f.Type,
		Title:     f.Title,
		DateRange: f.DateRange,
		Skills:    f.Skills,
		Content:   f.Content,
	}
	exp.Normalize()

	if err := exp.Validate(); err != nil {
		return nil, err
	}

	if exp.ID == "" {
		exp.ID = experience.NewID()
	}

	return exp, nil
}
