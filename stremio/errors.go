package stremio

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid stremio configuration")
	// ErrNotConnected indicates an operation before a successful Connect
	ErrNotConnected = errors.New("not connected: no addon manifests loaded")
	// ErrNoStream indicates that no addon offered a playable stream
	ErrNoStream = errors.New("no stream available from any addon")
)

// APIError represents an addon HTTP error response
type APIError struct {
	StatusCode int
	Endpoint   string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("stremio addon error: %s: status %d", e.Endpoint, e.StatusCode)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}
