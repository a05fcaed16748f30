// Package apperr defines the error categories the API distinguishes at the
// handler boundary. Each category has a sentinel that the concrete error
// unwraps to, so callers branch with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ValidationError carries an optional per-field message map.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// Validation returns a ValidationError without field details.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FieldError returns a ValidationError for a single field.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "invalid input",
		Fields:  map[string]string{field: message},
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s (%s)", ErrValidation, e.Message, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing entity by name and identifier.
type NotFoundError struct {
	Entity string
	ID     any
}

func NotFound(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a uniqueness or state conflict, e.g. a duplicate
// slug or an order that already has a shipment.
type ConflictError struct {
	Message string
}

func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// AccessError is returned for missing sessions (ErrUnauthorized) and
// insufficient roles (ErrForbidden).
type AccessError struct {
	Kind    error
	Message string
}

func Unauthorized(message string) *AccessError {
	return &AccessError{Kind: ErrUnauthorized, Message: message}
}

func Forbidden(message string) *AccessError {
	return &AccessError{Kind: ErrForbidden, Message: message}
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AccessError) Unwrap() error { return e.Kind }

// Fields extracts the field map from a wrapped ValidationError, or nil.
func Fields(err error) map[string]string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}
