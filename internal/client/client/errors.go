package client

import (
	"context"
	"errors"
	"strings"
)

// Error kinds. Each sentinel's text is the message shown to the user when the
// server did not supply a better one.
var (
	ErrUnavailable  = errors.New("check your connection")
	ErrUnauthorized = errors.New("please log in again")
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrServer       = errors.New("server error, try again later")
	ErrBusinessRule = errors.New("operation not allowed")
)

// Error is a classified failure. It matches its Kind with errors.Is and
// unwraps to the underlying cause, if any.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BusinessRule reports a locally detected rule violation.
func BusinessRule(msg string) error {
	return &Error{Kind: ErrBusinessRule, Message: msg}
}

// Message returns text that is safe to show to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	for _, kind := range []error{ErrUnavailable, ErrUnauthorized, ErrValidation, ErrNotFound, ErrServer, ErrBusinessRule} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return "unexpected error: " + strings.TrimSpace(err.Error())
}
