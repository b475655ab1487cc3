// Package errs defines the typed errors shared by the services and the HTTP
// layer. Every typed error unwraps to one of the sentinels below so callers
// can branch with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrStaleOrder          = errors.New("order was modified concurrently")
	ErrGenerationExhausted = errors.New("failed to generate unique code")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrPersistence         = errors.New("persistence failure")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "value is invalid: " + e.Field
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     any
	Cause  error
}

func NewNotFoundError(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewNotFoundErrorWithCause(entity string, id any, cause error) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id, Cause: cause}
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError reports a uniqueness or state conflict.
type ConflictError struct {
	Message string
	Cause   error
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func NewConflictErrorWithCause(message string, cause error) *ConflictError {
	return &ConflictError{Message: message, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// TransitionError reports a status change that is not an edge of the
// order pipeline.
type TransitionError struct {
	From string
	To   string
}

func NewTransitionError(from, to string) *TransitionError {
	return &TransitionError{From: from, To: to}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PersistenceError wraps an unexpected storage failure. Its Cause is logged,
// never returned to clients.
type PersistenceError struct {
	Op    string
	Cause error
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Cause)
}

// Unwrap exposes both the sentinel and the cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Cause}
}
