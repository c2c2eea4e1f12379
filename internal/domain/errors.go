// Package domain defines core types, interfaces, and errors for the identity console.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates the caller is not authenticated.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input, or a mutation the store rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate user name).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnknownFieldError indicates a sort or filter column that does not resolve
// to a field of the entity kind.
type UnknownFieldError struct {
	Entity string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown %s field %q", e.Entity, e.Field)
}

// InvalidPageRequestError indicates malformed paging bounds.
type InvalidPageRequestError struct {
	Message string
}

func (e *InvalidPageRequestError) Error() string { return "invalid page request: " + e.Message }

// UnknownClaimTypeError indicates a claim type missing from the claim type registry.
type UnknownClaimTypeError struct {
	ClaimType string
}

func (e *UnknownClaimTypeError) Error() string {
	return fmt.Sprintf("unknown claim type %q", e.ClaimType)
}

// UnavailableError indicates the identity store failed for an infrastructure
// reason. The wrapped error is for logs only and is never shown to callers.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "store unavailable: " + e.Op
	}
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidPage creates an InvalidPageRequestError with a formatted message.
func ErrInvalidPage(format string, args ...interface{}) *InvalidPageRequestError {
	return &InvalidPageRequestError{Message: fmt.Sprintf(format, args...)}
}
