package server

import (
	"context"
	"errors"
	"net"

	"github.com/remuxapp/remux/jellyfin"
)

// Connect-time errors. Any of these means the instance is not usable and
// the caller must fall back to a re-authentication flow.
var (
	// ErrUnauthorized indicates rejected credentials or an expired token
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnreachable indicates a network or DNS failure reaching the backend
	ErrUnreachable = errors.New("server unreachable")
	// ErrTimeout indicates the connect deadline was exceeded
	ErrTimeout = errors.New("connection timed out")
	// ErrNotConnected indicates a canonical operation before a successful Connect
	ErrNotConnected = errors.New("server not connected")
)

// classifyConnectError maps an adapter connect failure onto the connection
// state machine.
func classifyConnectError(err error) ConnectionStatus {
	if errors.Is(err, jellyfin.ErrUnauthorized) {
		return StatusUnauthorized
	}
	var apiErr *jellyfin.APIError
	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		return StatusUnauthorized
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout
	}

	return StatusUnreachable
}

// statusError returns the sentinel matching a failed connection status.
func statusError(status ConnectionStatus) error {
	switch status {
	case StatusUnauthorized:
		return ErrUnauthorized
	case StatusTimeout:
		return ErrTimeout
	case StatusUnreachable:
		return ErrUnreachable
	default:
		return ErrNotConnected
	}
}
