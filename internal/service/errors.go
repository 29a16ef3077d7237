package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Handlers translate these to
// HTTP statuses; none of them is fatal to the process.
var (
	// ErrNotFound is returned when a referenced entity or association row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique association (favorite,
	// cart entry, subscription) is inserted a second time.
	ErrAlreadyExists = errors.New("already exists")

	// ErrSelfFollow is returned when a user attempts to subscribe to themselves.
	ErrSelfFollow = errors.New("cannot subscribe to yourself")

	// ErrEmptyCart is returned by the shopping list builder when the cart has no entries.
	ErrEmptyCart = errors.New("shopping cart is empty")

	// ErrForbidden is returned when the actor is neither the resource owner nor an admin.
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidCredentials is returned on failed login or password change.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed input keyed by the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
