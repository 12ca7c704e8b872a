package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const contentType = "application/json"

// Do sends an authenticated request to path on the backend. body, when not nil,
// is encoded as JSON. Caller headers are sent too, but Content-Type and
// Authorization always come from the client.
//
// Without a token nothing is sent. A 401 answer signs the session out and
// returns ErrSessionExpired; every other status is handed back to the caller.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header) (*http.Response, error) {
	token := ""
	if c.session != nil {
		token = c.session.AccessToken(ctx)
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIURL+path, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req = c.setHeaders(req, token)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.logger.Info("backend rejected the session, signing out", zap.String("path", path))
		if err := c.session.SignOut(ctx); err != nil {
			c.logger.Warn("signing out", zap.Error(err))
		}
		return nil, ErrSessionExpired
	}

	return resp, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response", zap.String("url", req.URL.String()), zap.Int("status", resp.StatusCode))
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, token string) *http.Request {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	return req
}

// sendJSON sends body and decodes a successful answer into target.
// Non-2xx answers become an *Error carrying the backend detail or fallback.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, target any, fallback string) error {
	resp, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return err
	}

	if !ok(resp.StatusCode) {
		return readError(resp, fallback)
	}
	defer resp.Body.Close()

	if target == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	return nil
}

func ok(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
