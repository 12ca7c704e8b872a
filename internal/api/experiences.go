package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spigell/resume-tailor/internal/experience"
)

const (
	ExperiencesPath      = "/api/experiences"
	BatchExperiencesPath = "/api/experiences/batch"

	saveFailedMessage   = "Failed to save experience"
	deleteFailedMessage = "Failed to delete experience"
)

type experiencesPayload struct {
	Experiences []experience.Experience `json:"experiences"`
}

// ListExperiences returns the whole inventory of the user.
func (c *Client) ListExperiences(ctx context.Context) ([]experience.Experience, error) {
	var resp experiencesPayload
	if err := c.sendJSON(ctx, http.MethodGet, ExperiencesPath, nil, &resp, "Failed to fetch experiences"); err != nil {
		return nil, err
	}

	if resp.Experiences == nil {
		return []experience.Experience{}, nil
	}

	return resp.Experiences, nil
}

// CreateExperience stores a new record. The id is chosen by the caller.
func (c *Client) CreateExperience(ctx context.Context, exp experience.Experience) error {
	if exp.ID == "" {
		return errors.New("experience id is required")
	}
	return c.sendJSON(ctx, http.MethodPost, ExperiencesPath, exp, nil, saveFailedMessage)
}

// UpdateExperience replaces the record with the same id.
func (c *Client) UpdateExperience(ctx context.Context, exp experience.Experience) error {
	if exp.ID == "" {
		return errors.New("experience id is required")
	}
	return c.sendJSON(ctx, http.MethodPut, experiencePath(exp.ID), exp, nil, saveFailedMessage)
}

func (c *Client) DeleteExperience(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("experience id is required")
	}
	return c.sendJSON(ctx, http.MethodDelete, experiencePath(id), nil, nil, deleteFailedMessage)
}

// BatchCreateExperiences stores several new records in one request.
func (c *Client) BatchCreateExperiences(ctx context.Context, exps []experience.Experience) error {
	if len(exps) == 0 {
		return nil
	}
	return c.sendJSON(ctx, http.MethodPost, BatchExperiencesPath, experiencesPayload{Experiences: exps}, nil, "Failed to save experiences")
}

func experiencePath(id string) string {
	return fmt.Sprintf("%s/%s", ExperiencesPath, url.PathEscape(id))
}
