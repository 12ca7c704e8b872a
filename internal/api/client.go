// Package api talks to the resume-tailor backend on behalf of the signed-in user.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultURL       = "http://localhost:8000"
	DefaultUserAgent = "spigell/resume-tailor"
)

// Session provides bearer tokens and is told when the backend rejects them.
type Session interface {
	AccessToken(ctx context.Context) string
	SignOut(ctx context.Context) error
}

type Client struct {
	session    Session
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, session Session, apiURL string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultURL
	}

	return &Client{
		session: session,
		APIURL:  apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: DefaultUserAgent,
	}
}
