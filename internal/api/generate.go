package api

import (
	"context"
	"net/http"
)

const GeneratePath = "/api/generate"

type GenerateRequest struct {
	JobDescription string   `json:"job_description"`
	ExperienceIDs  []string `json:"experience_ids"`
	NumBullets     int      `json:"num_bullets"`
}

type generateResponse struct {
	Bullets []string `json:"bullets"`
}

// Generate asks the backend to write bullets from the given experiences.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]string, error) {
	var resp generateResponse
	if err := c.sendJSON(ctx, http.MethodPost, GeneratePath, req, &resp, "Failed to generate bullets"); err != nil {
		return nil, err
	}

	if resp.Bullets == nil {
		return []string{}, nil
	}

	return resp.Bullets, nil
}
