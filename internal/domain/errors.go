// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrNilWorkItem is returned when a work item is required but absent.
	ErrNilWorkItem = errors.New("work item cannot be nil")

	// ErrEmptyWorkItemID is returned when a work item has no identifier.
	ErrEmptyWorkItemID = errors.New("work item ID cannot be empty")

	// ErrEmptyTargetName is returned when a work item has no target name.
	ErrEmptyTargetName = errors.New("target name cannot be empty")

	// ErrMissingEnqueuedAt is returned when a work item has no enqueue timestamp.
	ErrMissingEnqueuedAt = errors.New("enqueue timestamp cannot be zero")

	// ErrCompletedBeforeEnqueued is returned when a completion timestamp
	// precedes the enqueue timestamp of the same item.
	ErrCompletedBeforeEnqueued = errors.New("completion timestamp precedes enqueue timestamp")
)

// ValidationError reports which field of an entity failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap exposes both the specific cause and ErrValidation to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}
