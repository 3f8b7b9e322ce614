package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrDuplicateActiveSubmission is returned when a user already has a
	// submission in Pending or Approved state.
	ErrDuplicateActiveSubmission = errors.New("you already have a submission pending review")

	// ErrStatusFinal is returned when a status update targets a submission
	// that already reached Approved or Rejected.
	ErrStatusFinal = errors.New("submission already reviewed")

	// ErrInvalidStatus is returned when a status update carries anything
	// other than Approved or Rejected.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrEmailInUse is returned on registration with an existing email.
	ErrEmailInUse = errors.New("email already in use")

	// ErrExtractionFailed is returned when the verification service reports
	// a non-success extraction result.
	ErrExtractionFailed = errors.New("failed to validate document")

	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError marks a client-input failure whose message is safe to
// surface verbatim to the caller.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

