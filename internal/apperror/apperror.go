package apperror

import (
	"errors"
	"fmt"
)

// ErrNothingToAmend signals an amend request for a user with no reports.
// The caller treats it as an absent-state signal, not a failure.
var ErrNothingToAmend = errors.New("no report to amend")

// ErrNotFound is the generic absent-document signal the repositories map
// gorm's record-not-found onto.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed request field. Surfaced
// immediately, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransientStoreError wraps a network or timeout failure talking to the
// database. Safe to retry with backoff.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

func (e *TransientStoreError) Retryable() bool { return true }

// UpstreamServiceError wraps empty or malformed output from an external
// service (the predictor API or the generative model). Conversational
// callers substitute a canned fallback instead of propagating it.
type UpstreamServiceError struct {
	Service string
	Err     error
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Service, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNothingToAmend)
}

func IsRetryable(err error) bool {
	var te *TransientStoreError
	return errors.As(err, &te)
}
