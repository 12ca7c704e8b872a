package experience

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperience_Validate(t *testing.T) {
	tests := []struct {
		name    string
		exp     Experience
		wantErr string
	}{
		{
			name: "valid",
			exp:  Experience{Type: TypeWork, Title: "Backend Engineer at Acme", Content: "Built APIs"},
		},
		{
			name:    "missing title",
			exp:     Experience{Type: TypeWork, Content: "Built APIs"},
			wantErr: "title is required",
		},
		{
			name:    "missing content",
			exp:     Experience{Type: TypeProject, Title: "CLI"},
			wantErr: "content is required",
		},
		{
			name:    "unknown type",
			exp:     Experience{Type: "hobby", Title: "Chess", Content: "Played"},
			wantErr: "type must be one of",
		},
		{
			name:    "duplicate skills",
			exp:     Experience{Type: TypeWork, Title: "t", Content: "c", Skills: []string{"go", "go"}},
			wantErr: "skills must not contain duplicates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exp.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExperience_Normalize(t *testing.T) {
	exp := Experience{
		Title:   "  Engineer ",
		Skills:  []string{" Go", "Go", "", "SQL"},
		Content: "text\n",
	}

	exp.Normalize()

	assert.Equal(t, TypeWork, exp.Type)
	assert.Equal(t, "Engineer", exp.Title)
	assert.Equal(t, "text", exp.Content)
	assert.Equal(t, []string{"Go", "SQL"}, exp.Skills)
	assert.NotNil(t, exp.Industry)
	assert.NotNil(t, exp.Tags)
	assert.Empty(t, exp.Industry)
	assert.Empty(t, exp.Tags)
}

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestType_Label(t *testing.T) {
	assert.Equal(t, "Work Experience", TypeWork.Label())
	assert.Equal(t, "Volunteering", TypeVolunteering.Label())
	assert.Equal(t, "hobby", Type("hobby").Label())
}

func TestFormatting(t *testing.T) {
	exp := Experience{Content: strings.Repeat("a", 200)}
	assert.Equal(t, strings.Repeat("a", 150)+"...", exp.Preview())

	m := Match{Type: TypeWork, DateRange: "2020 - 2022", Skills: []string{"a", "b", "c", "d", "e", "f", "g"}}
	assert.Equal(t, "work • 2020 - 2022", m.Meta())
	assert.Equal(t, "a, b, c, d, e +2", m.ShortSkills())

	m = Match{Type: TypeProject}
	assert.Equal(t, "project", m.Meta())
	assert.Equal(t, "", m.ShortSkills())
}
