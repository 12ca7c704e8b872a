package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/resume-tailor/internal/experience"
)

const ParseLinkedInPath = "/api/parse-linkedin"

// LinkedInText holds the sections copied from a LinkedIn profile.
type LinkedInText struct {
	Experiences  string `json:"experiences_text"`
	Projects     string `json:"projects_text"`
	Volunteering string `json:"volunteering_text"`
}

type parseLinkedInResponse struct {
	Experiences []any `json:"experiences"`
}

// ParseLinkedIn asks the backend to turn pasted profile text into draft experiences.
// Drafts have no id. The entries come out of a language model, so they are decoded
// loosely: missing fields stay empty and scalar types are coerced where possible.
func (c *Client) ParseLinkedIn(ctx context.Context, text LinkedInText) ([]experience.Experience, error) {
	var resp parseLinkedInResponse
	if err := c.sendJSON(ctx, http.MethodPost, ParseLinkedInPath, text, &resp, "Failed to parse LinkedIn text"); err != nil {
		return nil, err
	}

	drafts := make([]experience.Experience, 0, len(resp.Experiences))
	cfg := &mapstructure.DecoderConfig{
		Result:           &drafts,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(resp.Experiences); err != nil {
		return nil, fmt.Errorf("decode parsed experiences: %w", err)
	}

	for i := range drafts {
		drafts[i].ID = ""
		drafts[i].Normalize()
	}

	return drafts, nil
}
