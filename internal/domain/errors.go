package domain

import (
	"errors"
	"fmt"
)

// ValidationError signals missing or malformed required input. It is raised
// before any mutating store operation runs.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals that a referenced entity (by identifier or name
// token) does not resolve.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// ConflictError signals a duplicate identifier on create, surfaced from the
// store's uniqueness constraints.
type ConflictError struct {
	Entity string
	Key    string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}

// StoreError wraps any failure of the underlying graph store, including
// connectivity problems.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("graph store operation %q failed: %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
