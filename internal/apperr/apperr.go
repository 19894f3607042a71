// Package apperr classifies failures so the HTTP boundary can map them to
// responses without inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	}

	return "unknown"
}

// Error is a classified error. Msg is safe to show to a client for the
// validation, unauthorized, not found and conflict kinds.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.message(), e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.message())
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.message(), e.Err)
	}

	return e.message()
}

func (e *Error) message() string {
	if e.Msg != "" {
		return e.Msg
	}

	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a client-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation reports malformed input.
func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

// Unauthorized reports a missing or rejected credential.
func Unauthorized(op, msg string, err error) error {
	return &Error{Kind: KindUnauthorized, Op: op, Msg: msg, Err: err}
}

// Storage wraps a persistence failure. The wrapped error is for logs only.
func Storage(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Msg: "storage failure", Err: err}
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// Message returns the client-safe message of the outermost classified error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.message()
	}

	return ""
}
