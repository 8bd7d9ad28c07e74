package gti

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAuth indicates the backend rejected the credentials.
	ErrInvalidAuth = errors.New("invalid auth")

	// ErrCannotConnect indicates the backend could not be reached.
	ErrCannotConnect = errors.New("cannot connect")
)

// GTIError is a protocol-level error reported by the GTI backend via its
// returnCode field.
type GTIError struct {
	Code    string
	Text    string
	DevInfo string
}

func (e *GTIError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("gti: %s: %s", e.Code, e.Text)
	}
	return fmt.Sprintf("gti: %s", e.Code)
}

// APIError represents a non-200 HTTP response from the GTI backend.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gti: HTTP %d: %s (endpoint: %s)", e.StatusCode, e.Status, e.Endpoint)
}

// Is maps HTTP status classes onto the sentinel errors: 401/403 mean the
// signature or user was rejected, 5xx means the backend is unreachable in
// any useful sense.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidAuth:
		return e.StatusCode == 401 || e.StatusCode == 403
	case ErrCannotConnect:
		return e.StatusCode >= 500
	}
	return false
}

// NewAPIError creates a new API error.
func NewAPIError(statusCode int, status, endpoint string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Status:     status,
		Endpoint:   endpoint,
	}
}
