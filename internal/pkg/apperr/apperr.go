// Package apperr defines the error kinds surfaced to callers.
//
// Each failure carries exactly one Kind. Domain errors are declared once as
// *Error values and propagated unchanged (or wrapped with %w); transports map
// the Kind to a status code. Errors without a Kind are Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	// Internal is an unexpected failure, including collaborator failures.
	Internal Kind = iota
	// Validation means the caller sent malformed or unacceptable input.
	Validation
	// Unauthenticated means the operation requires a caller identity.
	Unauthenticated
	// Forbidden means the caller is not allowed to act on the resource.
	Forbidden
	// NotFound means the target resource does not exist.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure tagged with a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates a tagged error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags err with kind, keeping err reachable through errors.Is/As.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the caller-facing message: the Message of the first *Error
// in the chain, or err.Error() for untagged errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
