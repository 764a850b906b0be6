package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a booking error.
type Kind string

const (
	KindPreconditionNotMet Kind = "PRECONDITION_NOT_MET"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindStoreFailure       Kind = "STORE_FAILURE"
	KindInvalidInput       Kind = "INVALID_INPUT"
)

// Error is returned by stores and resolvers.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// Sentinels for errors.Is checks.
var (
	ErrPreconditionNotMet = NewError(KindPreconditionNotMet, "precondition not met")
	ErrNotFound           = NewError(KindNotFound, "not found")
	ErrConflict           = NewError(KindConflict, "conflict")
	ErrStoreFailure       = NewError(KindStoreFailure, "store failure")
	ErrInvalidInput       = NewError(KindInvalidInput, "invalid input")
)

// NotFound reports a missing record of the given kind.
func NotFound(kind, id string) *Error {
	return NewError(KindNotFound, fmt.Sprintf("%s not found: %s", kind, id))
}

// StoreFailure wraps a backend error.
func StoreFailure(op string, err error) *Error {
	return NewError(KindStoreFailure, op).WithCause(err)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
