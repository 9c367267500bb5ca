// Package apperr holds the error kinds shared by the services and the HTTP layer.
// Services wrap one of the sentinels with context; handlers map them to a status
// with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConfiguration means a credential is missing or unusable.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput means the caller sent something we cannot work with.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrQuotaExceeded means the vendor rate-limited us and no fallback was possible.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrUpstreamUnavailable covers browser, transcript and listing failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error carries a user-facing message next to its kind. Error() returns only the
// message, so it can be sent back as the response detail as is.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error of the given kind.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around cause.
func Wrap(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Status maps an error to the HTTP status the API answers with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
