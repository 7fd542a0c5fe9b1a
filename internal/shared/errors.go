package shared

import (
	"errors"
	"fmt"
)

var (
	ErrorNotFound             = errors.New("not found")
	ErrorAlreadyExists        = errors.New("already exists")
	ErrorValidation           = errors.New("validation error")
	ErrorInvalidLoginPassword = errors.New("invalid email or password")
	ErrorUnauthorized         = errors.New("unauthorized")
	ErrorForbidden            = errors.New("forbidden")

	// ErrorNotAllowed is a business rule refusal such as a bid that is too
	// high or an action on a closed listing.
	ErrorNotAllowed = errors.New("not allowed")
)

// Error carries a user facing message next to one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the user facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
