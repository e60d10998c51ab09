package augment

import "errors"

var (
	// ErrInvalidRequest is returned when the caller's query is empty or too long.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrModelInvocationFailed wraps any failure of the language model call.
	ErrModelInvocationFailed = errors.New("model invocation failed")
	// ErrModelNotConfigured is returned by model clients that have no credential.
	ErrModelNotConfigured = errors.New("model provider not configured")
)
