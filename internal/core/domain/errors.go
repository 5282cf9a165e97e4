package domain

import "errors"

// Error kinds. Every error a service returns either wraps one of these or is
// treated as unexpected by the transport layer.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnexpected      = errors.New("unexpected error")
)

// Error pairs an error kind with the message shown to the caller. Cause, when
// set, is logged but never shown.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func Validation(msg string) error      { return &Error{Kind: ErrValidation, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error        { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error        { return &Error{Kind: ErrConflict, Message: msg} }

// Unexpected reports a failure whose message may be shown while cause stays
// server-side.
func Unexpected(msg string, cause error) error {
	return &Error{Kind: ErrUnexpected, Message: msg, Cause: cause}
}

// Message returns the caller-facing message for err, or fallback when err
// carries none of its own.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
