package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/resume-tailor/internal/clipboard"
	"github.com/spigell/resume-tailor/internal/experience"
	"github.com/spigell/resume-tailor/internal/inventory"
)

type nopWriter struct{}

func (nopWriter) WriteAll(string) error { return nil }

func TestMatchLabel(t *testing.T) {
	m := experience.Match{ID: "1", Title: "Platform Engineer", Similarity: 0.91}

	assert.Equal(t, "[x] Platform Engineer (Strong Match (91%))", matchLabel(m, true))
	assert.Equal(t, "[ ] Platform Engineer (Strong Match (91%))", matchLabel(m, false))
}

func TestExperienceLabel(t *testing.T) {
	exp := experience.Experience{Type: experience.TypeProject, Title: "CLI tool"}
	assert.Equal(t, "Project: CLI tool", experienceLabel(exp))

	exp.DateRange = "2023"
	assert.Equal(t, "Project: CLI tool (2023)", experienceLabel(exp))
}

func TestRenderBulletsMarksCopied(t *testing.T) {
	copier := clipboard.New(nopWriter{}, nil)
	bullets := []string{"Led migration", "Cut costs"}

	var out bytes.Buffer
	renderBullets(&out, bullets, copier)
	assert.NotContains(t, out.String(), "(copied)")

	copier.CopyBullet(bullets, 1)
	out.Reset()
	renderBullets(&out, bullets, copier)
	assert.Contains(t, out.String(), " 2. Cut costs  (copied)")
	assert.NotContains(t, out.String(), " 1. Led migration  (copied)")
}

func TestRenderExperiences(t *testing.T) {
	var out bytes.Buffer
	renderExperiences(&out, nil)
	assert.Equal(t, "No experiences yet.\n", out.String())

	out.Reset()
	renderExperiences(&out, []experience.Experience{{
		ID:      "42",
		Type:    experience.TypeWork,
		Title:   "Engineer at Acme",
		Skills:  []string{"Go", "SQL"},
		Content: "Built the billing pipeline",
	}})
	assert.Equal(t, "Work Experience: Engineer at Acme\n    id: 42\n    skills: Go, SQL\n    Built the billing pipeline\n", out.String())
}

func TestRenderDraftsFlagsInvalid(t *testing.T) {
	drafts := []experience.Experience{
		{Type: experience.TypeWork, Title: "Engineer at Acme", Content: "Built billing"},
		{Type: experience.TypeProject, Title: "Side project"},
	}
	invalid := []inventory.InvalidDraftError{{Index: 1, Title: "Side project", Err: errors.New("content is required")}}

	var out bytes.Buffer
	renderDrafts(&out, drafts, invalid)

	assert.Equal(t, " 1. Work Experience: Engineer at Acme\n    Built billing\n"+
		" 2. Project: Side project\n    needs editing: content is required\n", out.String())
}

func TestDraftHint(t *testing.T) {
	err := &inventory.InvalidDraftError{Index: 2, Title: "Side project", Err: errors.New("content is required")}
	assert.Equal(t, `Draft 3 (Side project) cannot be saved: content is required. Choose "Edit a draft" to fix it.`, draftHint(err))
}
