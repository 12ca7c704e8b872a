package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotAuthenticated is returned before sending anything when there is no token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned after the backend answered 401 and the session was dropped.
	ErrSessionExpired = errors.New("session expired, please sign in again")
)

// Error is a non-2xx answer from the backend. Error() is the backend detail verbatim
// so it can be shown to the user as is.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// StatusCode returns the HTTP status of a backend error, or 0 for any other error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type errorBody struct {
	Detail any `json:"detail"`
}

// readError builds an Error from the response, using fallback when the body has no detail.
func readError(resp *http.Response, fallback string) error {
	defer resp.Body.Close()

	detail := fallback
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var body errorBody
		if json.Unmarshal(data, &body) == nil {
			if text := detailText(body.Detail); text != "" {
				detail = text
			}
		}
	}

	return &Error{Status: resp.StatusCode, Detail: detail}
}

// detailText flattens the detail field. Validation failures come as a list of objects with a msg.
func detailText(detail any) string {
	switch typed := detail.(type) {
	case string:
		return strings.TrimSpace(typed)
	case []any:
		messages := make([]string, 0, len(typed))
		for _, item := range typed {
			if obj, ok := item.(map[string]any); ok {
				if msg, ok := obj["msg"].(string); ok && msg != "" {
					messages = append(messages, msg)
				}
			}
		}
		return strings.Join(messages, "; ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", typed)
	}
}
