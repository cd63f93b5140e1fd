package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Taxonomy roots. Every error a feature returns matches at least one of them via errors.Is.
var (
	ErrNetworkFailure       = errors.New("network failure")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrConflict             = errors.New("conflict")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbidden            = errors.New("forbidden")
)

var (
	ErrBookNotFound          = fmt.Errorf("book %w", ErrNotFound)
	ErrBorrowRequestNotFound = fmt.Errorf("borrow request %w", ErrNotFound)

	ErrPasswordMismatch = fmt.Errorf("%w: password confirmation does not match", ErrValidation)

	ErrEmailAlreadyRegistered = fmt.Errorf("%w: email is already registered", ErrConflict)
	ErrBookAlreadyRequested   = fmt.Errorf("%w: book already has an open borrow request", ErrConflict)
	ErrBookUnavailable        = fmt.Errorf("%w: book is not available", ErrConflict)
	ErrInvalidTransition      = fmt.Errorf("%w: status transition is not allowed", ErrConflict)
	ErrBookHasOpenRequest     = fmt.Errorf("%w: book is referenced by an open borrow request", ErrConflict)
)

var (
	// ErrTransitionRolledBack means the second write of a transition failed and the first one was undone.
	ErrTransitionRolledBack = errors.New("transition rolled back")

	// ErrTransitionIncomplete means neither the second write nor its compensation succeeded.
	// Reconciliation finishes the transition later.
	ErrTransitionIncomplete = errors.New("transition incomplete")
)

// ValidationError lists the offending fields, it matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	msg := ErrValidation.Error()
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		msg += fmt.Sprintf("; %s: %s", field, e.Fields[field])
	}

	return msg
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}
