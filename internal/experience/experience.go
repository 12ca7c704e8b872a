package experience

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Type string

const (
	TypeWork         Type = "work"
	TypeProject      Type = "project"
	TypeVolunteering Type = "volunteering"
	TypeEducation    Type = "education"
	TypeOther        Type = "other"
)

// Types lists every experience type in display order.
var Types = []Type{TypeWork, TypeProject, TypeVolunteering, TypeEducation, TypeOther}

var typeLabels = map[Type]string{
	TypeWork:         "Work Experience",
	TypeProject:      "Project",
	TypeVolunteering: "Volunteering",
	TypeEducation:    "Education",
	TypeOther:        "Other",
}

// Label returns the human readable name of the type. Unknown types are returned as is.
func (t Type) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Experience is a stored work, project, volunteering or education record.
// Records without an ID are drafts that were never saved.
type Experience struct {
	ID        string   `json:"id" yaml:"id" mapstructure:"id"`
	Type      Type     `json:"type" yaml:"type" mapstructure:"type" validate:"required,oneof=work project volunteering education other"`
	Title     string   `json:"title" yaml:"title" mapstructure:"title" validate:"required"`
	DateRange string   `json:"date_range,omitempty" yaml:"date_range,omitempty" mapstructure:"date_range"`
	Skills    []string `json:"skills" yaml:"skills,omitempty" mapstructure:"skills" validate:"unique"`
	Industry  []string `json:"industry" yaml:"industry,omitempty" mapstructure:"industry"`
	Tags      []string `json:"tags" yaml:"tags,omitempty" mapstructure:"tags"`
	Content   string   `json:"content" yaml:"content" mapstructure:"content" validate:"required"`
}

// Match is an experience ranked against a job description by the backend.
type Match struct {
	ID         string   `json:"id"`
	Type       Type     `json:"type"`
	Title      string   `json:"title"`
	DateRange  string   `json:"date_range,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Content    string   `json:"content,omitempty"`
	Similarity float64  `json:"similarity"`
}

var validate = validator.New()

// NewID returns a fresh identifier for a record created on this side.
func NewID() string {
	return uuid.NewString()
}

// IsDraft reports whether the experience has never been saved.
func (e *Experience) IsDraft() bool {
	return strings.TrimSpace(e.ID) == ""
}

// Normalize trims text fields and makes sure list fields are non-nil so they
// are sent as empty lists instead of null.
func (e *Experience) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.DateRange = strings.TrimSpace(e.DateRange)
	e.Content = strings.TrimSpace(e.Content)
	if e.Type == "" {
		e.Type = TypeWork
	}
	e.Skills = UniqueSkills(e.Skills)
	if e.Industry == nil {
		e.Industry = []string{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
}

// Validate checks the fields the backend requires.
func (e *Experience) Validate() error {
	return ValidationError(validate.Struct(e))
}

// UniqueSkills trims the skills and drops blanks and duplicates, keeping the first occurrence.
func UniqueSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		result = append(result, skill)
	}
	return result
}

// ValidationError turns validator errors into short messages such as "title is required".
// Any other error is returned unchanged.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "unique":
			messages = append(messages, fmt.Sprintf("%s must not contain duplicates", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}

	return errors.New(strings.Join(messages, "; "))
}
