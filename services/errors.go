// ABOUTME: Error taxonomy for the session and query layer
// ABOUTME: Sentinel errors plus APIError for upstream HTTP failures

package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthentication means the refresh-token exchange failed. Its message
	// is deliberately generic; details are only logged.
	ErrAuthentication = errors.New("failed to authenticate with Strava, check server logs")

	// ErrInvalidArgument means a caller passed a structurally invalid
	// parameter. No network call was attempted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means Strava reported the referenced entity does not exist
	// or is not accessible to the athlete.
	ErrNotFound = errors.New("not found")

	// ErrUpstream covers every other transport or API failure.
	ErrUpstream = errors.New("strava API failure")
)

// APIError is a non-2xx response from the Strava API.
type APIError struct {
	StatusCode int
	Message    string
	Resource   string
	notFound   bool
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Resource != "" {
		return fmt.Sprintf("strava API %s returned status %d: %s", e.Resource, e.StatusCode, msg)
	}
	return fmt.Sprintf("strava API returned status %d: %s", e.StatusCode, msg)
}

// Unwrap maps the response onto the error taxonomy.
func (e *APIError) Unwrap() error {
	if e.notFound {
		return ErrNotFound
	}
	return ErrUpstream
}

// RateLimited reports whether Strava rejected the call for rate limiting.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// invalidArgument builds an ErrInvalidArgument with context.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// upstreamError wraps a transport or decode failure as ErrUpstream.
func upstreamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
