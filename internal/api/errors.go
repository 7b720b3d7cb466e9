package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks a 401 response. The session has already been cleared
// through the unauthorized hook by the time callers see it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is any non-2xx, non-401 response, carrying the backend's message
// when it supplied one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// DisplayMessage returns the backend's message for err when it has one,
// falling back to the supplied generic text. Used by the CLI and TUI layers
// for user-facing notifications.
func DisplayMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Session expired. Please log in again."
	}
	return fallback
}
