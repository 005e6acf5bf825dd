package gateway

import "errors"

var (
	// ErrUnavailable marks connection-refused and timeout failures.
	// Retryable by the caller; never retried here.
	ErrUnavailable = errors.New("server unavailable")

	// ErrAuthRequired marks an authenticated operation attempted with no
	// stored token.
	ErrAuthRequired = errors.New("authentication required")

	// ErrTokenMissing means login/signUp succeeded at the transport level
	// but the response carried no token. A contract violation, fatal for
	// the call.
	ErrTokenMissing = errors.New("token missing from response")

	// ErrEmptyPayload marks a successful response with no usable body.
	// Not a failure: callers treat it as "no result". The session layer
	// uses it to trigger silent re-authentication.
	ErrEmptyPayload = errors.New("empty response payload")
)
