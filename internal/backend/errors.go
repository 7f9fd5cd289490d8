package backend

import (
	"errors"
	"fmt"
)

// Failure classes for remote calls. Handlers pick HTTP statuses off these
// and the session store turns them into user notices.
var (
	ErrUnreachable  = errors.New("backend unreachable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrMalformed    = errors.New("malformed response")
)

// Error is what every remote-call wrapper returns on failure. Message is
// always user-presentable: the backend's message field when one came
// back, the per-operation fallback otherwise.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage extracts the presentable text of a backend error, or the
// fallback when err is of some other kind.
func UserMessage(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

func classify(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 409:
		return ErrValidation
	default:
		return ErrUnreachable
	}
}
