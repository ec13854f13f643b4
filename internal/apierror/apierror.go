// Package apierror defines the status-coded error type shared by services
// and handlers. Services return these (often as package-level sentinels) and
// the request boundary converts them into the uniform JSON error envelope.
package apierror

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an error carrying an HTTP status and a client-safe message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap attaches a cause to a status-coded error. The cause is kept for
// logging and errors.Is/As but never rendered to clients.
func Wrap(err error, status int, message string) *Error {
	return &Error{Status: status, Message: message, cause: err}
}

func Validation(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Internal wraps an unexpected failure. The original error stays attached
// for logs; clients only ever see the generic message.
func Internal(err error, message string) *Error {
	return Wrap(err, http.StatusInternalServerError, message)
}

// From extracts the status-coded error from an error chain. Anything that
// does not carry a status is treated as an internal failure so driver and
// store errors never leak to callers.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err, "internal server error")
}
