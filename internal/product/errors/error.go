// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"strings"
)

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateSku = errors.New("SKU must be unique")
var ErrValidation = errors.New("validation failed")

// FieldViolation describes a single field that failed its constraint.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError is returned when a provided field fails its constraint
// or a required field is missing. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Violations []FieldViolation
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
