package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when input is missing a field or carries a value the store cannot keep.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateID is returned when an account id is already taken.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id", ErrValidation)
	// ErrNotFound is returned when an id lookup misses.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a session operation is called outside its valid state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrPersistence is returned when a flat-file resource cannot be read or written.
	ErrPersistence = errors.New("persistence failure")
	// ErrMalformedRecord marks a resource line that cannot be decoded.
	ErrMalformedRecord = fmt.Errorf("%w: malformed record", ErrPersistence)
	// ErrInvalidCredentials is returned when no account matches a username/password pair.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound is returned when an exam session id is unknown.
	ErrSessionNotFound = fmt.Errorf("exam session %w", ErrNotFound)
)

// Invalid builds a validation error for field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// Missing builds a not-found error for a kind/id pair.
func Missing(kind, id string) error {
	return fmt.Errorf("%s %q %w", kind, id, ErrNotFound)
}
