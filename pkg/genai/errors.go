package genai

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable is returned by Generate when the client has no API key
// configured. Callers are expected to fall back to template output.
var ErrUnavailable = errors.New("generative client not configured")

// APIError represents a non-retryable or exhausted-retries error
// response from the endpoint.
type APIError struct {
	// StatusCode is the HTTP status code (0 if not applicable).
	StatusCode int

	// Message is the raw error body from the endpoint.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generative endpoint error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generative endpoint error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// AuthError represents a rejected API key (HTTP 401 or 403).
type AuthError struct {
	// Message is the error body from the endpoint.
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("generative endpoint authentication failed: %s", e.Message)
}

// RateLimitError represents a rate limit response (HTTP 429). The
// ledger should keep requests inside quota; hitting this means the
// configured limits disagree with the endpoint's.
type RateLimitError struct {
	// RetryAfter is the wait the endpoint asked for, if it sent one.
	RetryAfter time.Duration

	// Message is the error body from the endpoint.
	Message string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("generative endpoint rate limit exceeded (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("generative endpoint rate limit exceeded: %s", e.Message)
}

// TimeoutError represents a request that ran out of time, either
// against the client timeout or the caller's context.
type TimeoutError struct {
	// Timeout is the configured per-request timeout.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generative endpoint request timeout after %s", e.Timeout)
}

// ParseError represents a malformed response body.
type ParseError struct {
	// RawResponse is the body that failed to parse.
	RawResponse string

	// Cause is the underlying parse error.
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generative endpoint response parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// parseRetryAfter parses a Retry-After header value in either
// delay-seconds or HTTP-date format.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
