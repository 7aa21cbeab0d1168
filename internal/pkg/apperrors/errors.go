package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")

	// Trip composition and feedback errors
	ErrDuplicateStop    = errors.New("stop already exists in trip")
	ErrAlreadyCheckedIn = errors.New("already checked in")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NotFound creates a not found error for the named resource
func NotFound(format string, args ...interface{}) error {
	return NewCustomError(ErrResourceNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgument creates a validation error with a message naming the offending field
func InvalidArgument(format string, args ...interface{}) error {
	return NewCustomError(ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// InvalidField creates a validation error carrying the field name in Details
func InvalidField(field, format string, args ...interface{}) error {
	return NewCustomError(ErrInvalidArgument, fmt.Sprintf(format, args...)).
		WithDetails(map[string]interface{}{"field": field})
}

// InvalidState creates an error for an illegal state transition
func InvalidState(format string, args ...interface{}) error {
	return NewCustomError(ErrInvalidState, fmt.Sprintf(format, args...))
}

// Forbidden creates a new custom error for permission denied with a message
func Forbidden(format string, args ...interface{}) error {
	return NewCustomError(ErrPermissionDenied, fmt.Sprintf(format, args...))
}

// Conflict creates a new custom error for conflict situations with a message
func Conflict(format string, args ...interface{}) error {
	return NewCustomError(ErrConflict, fmt.Sprintf(format, args...))
}

// DuplicateStop reports a destination or event that is already part of the trip
func DuplicateStop(kind string, targetID int64) error {
	return NewCustomError(ErrDuplicateStop, fmt.Sprintf("%s %d is already a stop of this trip", kind, targetID)).
		WithDetails(map[string]interface{}{"kind": kind, "targetId": targetID})
}

// AlreadyCheckedIn reports a repeated check-in on the same target
func AlreadyCheckedIn(kind string, targetID int64) error {
	return NewCustomError(ErrAlreadyCheckedIn, fmt.Sprintf("already checked in to %s %d", kind, targetID))
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message returns the user facing message of err
func Message(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	return err.Error()
}

// DetailsOf returns the details attached to a CustomError, if any
func DetailsOf(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}
