package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/experience"
)

func stored(ids ...string) []experience.Experience {
	result := make([]experience.Experience, 0, len(ids))
	for _, id := range ids {
		result = append(result, experience.Experience{
			ID:      id,
			Type:    experience.TypeWork,
			Title:   "Experience " + id,
			Content: "Did things at " + id,
		})
	}
	return result
}

func alwaysConfirm(string) (bool, error) { return true, nil }

func TestRefresh(t *testing.T) {
	backend := &fakeBackend{stored: stored("1", "2")}
	m := New(backend, nil)

	m.Refresh(context.Background())
	assert.Len(t, m.Items(), 2)
	require.NotNil(t, m.Find("2"))
	assert.Nil(t, m.Find("3"))

	backend.listErr = errors.New("connection refused")
	backend.stored = nil
	m.Refresh(context.Background())
	assert.Len(t, m.Items(), 2, "previous list is kept on failure")
}

func TestSaveCreatesAndRefetches(t *testing.T) {
	backend := &fakeBackend{}
	m := New(backend, nil)

	form := NewForm()
	form.Title = "Platform Engineer at Acme"
	form.DateRange = "Jan 2020 - Present"
	form.Content = "Ran the Kubernetes platform"
	form.AddSkill("Kubernetes")
	form.AddSkill(" Kubernetes ")
	form.AddSkill("Go")

	saved, err := m.Save(context.Background(), form)
	require.NoError(t, err)

	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "Go"}, saved.Skills)
	assert.Equal(t, 1, backend.callCount("create"))
	assert.Equal(t, 1, backend.callCount("list"))
	require.Len(t, m.Items(), 1)
	assert.Equal(t, saved.ID, m.Items()[0].ID)
}

func TestSaveUpdatesWithExistingID(t *testing.T) {
	backend := &fakeBackend{stored: stored("1")}
	m := New(backend, nil)
	m.Refresh(context.Background())

	form := EditForm(*m.Find("1"))
	form.Title = "Renamed"

	saved, err := m.Save(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "1", saved.ID)
	assert.Equal(t, 1, backend.callCount("update"))
	assert.Equal(t, 0, backend.callCount("create"))
	assert.Equal(t, "Renamed", m.Find("1").Title)
}

func TestSaveValidatesBeforeSending(t *testing.T) {
	backend := &fakeBackend{}
	m := New(backend, nil)

	form := NewForm()
	form.Content = "no title"
	_, err := m.Save(context.Background(), form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")

	form = NewForm()
	form.Title = "   "
	_, err = m.Save(context.Background(), form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "content is required")

	assert.Empty(t, backend.calls)
}

func TestSaveFailureSurfacesDetail(t *testing.T) {
	backend := &fakeBackend{saveErr: &api.Error{Status: 400, Detail: "duplicate key value"}}
	m := New(backend, nil)

	form := NewForm()
	form.Title = "t"
	form.Content = "c"
	_, err := m.Save(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, "duplicate key value", err.Error())
	assert.Equal(t, 0, backend.callCount("list"))
	assert.False(t, form.Editing(), "form is untouched and can be resubmitted")
}

func TestDelete(t *testing.T) {
	backend := &fakeBackend{stored: stored("1", "2", "3")}
	m := New(backend, nil)
	m.Refresh(context.Background())

	require.NoError(t, m.Delete(context.Background(), "2", alwaysConfirm))
	assert.Nil(t, m.Find("2"))
	assert.Len(t, m.Items(), 2)
	assert.Equal(t, 1, backend.callCount("list"), "delete does not refetch")

	backend.deleteErr = &api.Error{Status: 500, Detail: "Failed to delete experience"}
	err := m.Delete(context.Background(), "3", alwaysConfirm)
	require.Error(t, err)
	assert.NotNil(t, m.Find("3"))
	assert.Len(t, m.Items(), 2)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	backend := &fakeBackend{stored: stored("1")}
	m := New(backend, nil)
	m.Refresh(context.Background())

	err := m.Delete(context.Background(), "1", func(string) (bool, error) { return false, nil })
	require.ErrorIs(t, err, ErrDeleteCancelled)

	promptErr := errors.New("^C")
	err = m.Delete(context.Background(), "1", func(string) (bool, error) { return false, promptErr })
	require.ErrorIs(t, err, promptErr)

	assert.Equal(t, 0, backend.callCount("delete"))
	assert.NotNil(t, m.Find("1"))
}

func TestFormSkills(t *testing.T) {
	form := NewForm()
	assert.True(t, form.AddSkill("Go"))
	assert.False(t, form.AddSkill("Go"))
	assert.False(t, form.AddSkill("  "))
	assert.True(t, form.AddSkill("SQL"))
	assert.True(t, form.AddSkill("Kafka"))

	form.RemoveSkill("SQL")
	assert.Equal(t, []string{"Go", "Kafka"}, form.Skills)
}

func TestFormValidate(t *testing.T) {
	form := NewForm()
	form.Title = "t"
	form.Content = "c"
	form.Type = "hobby"
	err := form.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type must be one of")

	form.Type = experience.TypeEducation
	assert.NoError(t, form.Validate())
}
