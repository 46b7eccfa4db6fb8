// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeTransport covers connection failures: server unreachable,
	// connection refused, timeout.
	ErrTypeTransport

	// ErrTypeAPI covers non-200 HTTP responses from a reachable server.
	ErrTypeAPI

	// ErrTypeDecode covers response bodies that cannot be parsed.
	ErrTypeDecode
)

// ClientError represents an error from the Ollama client. Hint, when set,
// is a user-facing suggestion shown alongside the message. Body carries the
// raw response body of a non-200 reply so nothing the server said is lost.
type ClientError struct {
	Type       ErrorType
	Message    string
	Hint       string
	StatusCode int
	Body       string
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Hints attached to common failure modes.
const (
	hintServerDown    = "Is the Ollama server running? Try: ollama serve"
	hintModelMissing  = "Is the model installed? Try: ollama pull <model>"
	hintCheckResponse = "The server returned a response this client could not parse"
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning = &ClientError{
		Type:    ErrTypeTransport,
		Message: "cannot reach Ollama server",
		Hint:    hintServerDown,
	}
	ErrTimeout = &ClientError{
		Type:    ErrTypeTransport,
		Message: "request timed out",
		Hint:    hintServerDown,
	}
)

// IsTransport checks if an error is a connection-level failure.
func IsTransport(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTransport
	}
	return false
}

// IsAPI checks if an error is a non-200 response from the server.
func IsAPI(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeAPI
	}
	return false
}

// IsDecode checks if an error came from parsing a response body.
func IsDecode(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeDecode
	}
	return false
}

// Hint extracts the user-facing hint from an error, if any.
func Hint(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Hint
	}
	return ""
}
