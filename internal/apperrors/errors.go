// Package apperrors defines stable error codes for the intelligence engine's
// failure taxonomy. External-source failures are degraded at adapter
// boundaries and never reach callers as these errors; the codes that do cross
// component boundaries are NotFound, PersistenceFailure and ConflictOnCreate.
package apperrors

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a failure mode
type Code string

const (
	// TransportFailure covers timeouts, non-2xx statuses and malformed
	// payloads from any external source
	TransportFailure Code = "TRANSPORT_FAILURE"
	// NotFound means every discovery stage was exhausted with no candidate
	NotFound Code = "NOT_FOUND"
	// PersistenceFailure means the store rejected a write; the enclosing
	// transaction has been rolled back in full
	PersistenceFailure Code = "PERSISTENCE_FAILURE"
	// ConflictOnCreate means a duplicate-identity race was detected by a
	// pre-insert existence check
	ConflictOnCreate Code = "CONFLICT_ON_CREATE"
	// RateLimited means an upstream provider throttled us
	RateLimited Code = "RATE_LIMITED"
	// InvalidQuery means the input could not be turned into a usable query
	InvalidQuery Code = "INVALID_QUERY"
)

// Error is a structured error carrying a stable code and the source that
// produced it
type Error struct {
	Code    Code
	Message string
	Source  string // external source or component name, optional
	Cause   error
}

// New creates an Error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error wrapping a cause
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithSource returns a copy of the error tagged with a source name
func (e *Error) WithSource(source string) *Error {
	c := *e
	c.Source = source
	return &c
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Source != "" {
		msg += fmt.Sprintf(" (source: %s)", e.Source)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err represents an exhausted discovery
func IsNotFound(err error) bool {
	return HasCode(err, NotFound)
}
