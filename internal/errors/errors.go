// Package errors holds the domain error types shared by services and
// handlers.
package errors

import (
	stderrors "errors"
	"fmt"
)

// DomainError is a client-facing error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NotFoundError reports a missing entity. Its message is the one returned to
// callers, e.g. "Card not found".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is lets errors.Is match any NotFoundError for the same entity.
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Entity == e.Entity
}

var (
	ErrCardNotFound = &NotFoundError{Entity: "Card"}
	ErrUserNotFound = &NotFoundError{Entity: "User"}

	ErrCardholderRequired = &DomainError{
		Code:    "CARDHOLDER_REQUIRED",
		Message: "cardholder id is required",
	}
)

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}
