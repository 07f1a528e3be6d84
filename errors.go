package searchapi

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to check.
var (
	ErrNilAPI           = errors.New("searchapi: api implementation is nil")
	ErrAPINotRegistered = errors.New("searchapi: api not registered")
	ErrClosed           = errors.New("searchapi: results closed")
	ErrNoBaseURL        = errors.New("searchapi: base url required (use WithBaseURL)")
)

// APIError is returned by Client when the backend answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("searchapi: query failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("searchapi: query failed with status %d: %s", e.StatusCode, e.Message)
}
