package api

import (
	"context"
	"net/http"

	"github.com/spigell/resume-tailor/internal/experience"
)

const SearchPath = "/api/search"

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type SearchResult struct {
	Results []experience.Match `json:"results"`
	// Message is an advisory note from the backend, e.g. when the inventory is empty.
	Message string `json:"message,omitempty"`
}

// Search ranks the user's experiences against query.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	var result SearchResult
	req := SearchRequest{Query: query, Limit: limit}
	if err := c.sendJSON(ctx, http.MethodPost, SearchPath, req, &result, "Failed to search experiences"); err != nil {
		return nil, err
	}

	if result.Results == nil {
		result.Results = []experience.Match{}
	}

	return &result, nil
}
