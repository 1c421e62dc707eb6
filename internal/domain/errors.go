package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on uniqueness or state-conflict violations,
	// e.g. a duplicate email or deleting an event that has attendees.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyExists is returned by the registration repository when the
	// unique (event, user) index rejects a concurrent duplicate insert.
	ErrAlreadyExists = errors.New("registration already exists")

	// ErrInvalidCredentials is returned on login with an unknown email or a
	// password that does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConditionFailed is returned by conditional atomic updates when no
	// document matched the predicate at the instant of the write.
	ErrConditionFailed = errors.New("conditional update matched no document")
)

// Admission rejection reasons. The registration engine classifies a failed
// conditional update into exactly one of these, in priority order:
// not-found, not-open, deadline-passed, full, generic-ineligible.
var (
	ErrEventNotOpen   = errors.New("event is not open for registration")
	ErrDeadlinePassed = errors.New("registration deadline has passed")
	ErrEventFull      = errors.New("event is full")
	ErrNotEligible    = errors.New("not eligible to register for this event")
)

// ValidationError carries field-level validation messages for a 400 response.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
