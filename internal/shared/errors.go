package shared

import "errors"

// Sentinel errors shared across the module. Callers wrap these with
// fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// Input validation
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidFlag     = errors.New("invalid flag value")
	ErrInvalidInput    = errors.New("invalid input")

	// Credentials and sessions
	ErrMissingCredentials = errors.New("missing credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Upstream API
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")

	ErrNotImplemented = errors.New("not implemented")
)
