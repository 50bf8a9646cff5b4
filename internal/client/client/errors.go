package client

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Client wraps exactly one of them, so
// callers can branch with errors.Is.
var (
	ErrMissingToken = errors.New("missing token")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("server unavailable")
	ErrStaleSession = errors.New("stale session")
	ErrUnexpected   = errors.New("unexpected response")
)

// User-facing messages for the kinds that do not carry server text.
const (
	MsgMissingToken      = "the server did not return an access token"
	MsgInvalidCreds      = "invalid credentials"
	MsgValidationDefault = "invalid request data"
	MsgConflict          = "already registered"
	MsgNotFound          = "not found"
	MsgServer            = "server error, please try again later"
	MsgUnavailable       = "unable to reach the server, check your connection"
	MsgStaleSession      = "your session has expired, please log in again"
)

// Error is a normalized failure. Error() returns text that can be shown to
// the user as is; Kind identifies the category and Status the HTTP status
// (0 when no response was received).
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewValidationError builds a validation failure detected on the client
// before any request is sent.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func newError(kind error, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: msg, Err: cause}
}
