package cadenza

import (
	"errors"
	"fmt"
	"time"
)

// APIError is the root of the API error taxonomy. Every error mapped from a
// non-2xx response carries the extracted message, the HTTP status code, and
// the raw response body.
type APIError struct {
	Message    string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("spotify: %s (status %d)", e.Message, e.StatusCode)
	}
	return "spotify: " + e.Message
}

// BadRequestError maps HTTP 400. Never retried.
type BadRequestError struct{ APIError }

// AuthError maps HTTP 401 and any token-exchange failure. Never retried.
type AuthError struct{ APIError }

// ForbiddenError maps HTTP 403. Never retried.
type ForbiddenError struct{ APIError }

// NotFoundError maps HTTP 404. Never retried.
type NotFoundError struct{ APIError }

// RateLimitError maps HTTP 429 and carries the server's Retry-After value.
type RateLimitError struct {
	APIError
	RetryAfter time.Duration
}

// ServerError maps HTTP 5xx responses.
type ServerError struct{ APIError }

// Unwrap exposes the embedded APIError so errors.As can match any member
// of the taxonomy against *APIError.
func (e *BadRequestError) Unwrap() error { return &e.APIError }
func (e *AuthError) Unwrap() error       { return &e.APIError }
func (e *ForbiddenError) Unwrap() error  { return &e.APIError }
func (e *NotFoundError) Unwrap() error   { return &e.APIError }
func (e *RateLimitError) Unwrap() error  { return &e.APIError }
func (e *ServerError) Unwrap() error     { return &e.APIError }

// IsRetryable reports whether an error is safe to retry: rate limits and
// server errors are, everything else in the taxonomy is not.
func IsRetryable(err error) bool {
	var rateLimit *RateLimitError
	var server *ServerError
	return errors.As(err, &rateLimit) || errors.As(err, &server)
}
