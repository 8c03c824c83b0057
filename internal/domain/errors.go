package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID  = "invalid"   // Invalid input or validation failure
	ENOTFOUND = "not_found" // Resource not found
	ECONFLICT = "conflict"  // Resource conflict (e.g., duplicate)
	EINTERNAL = "internal"  // Internal server error

	// Weighing failure kinds. These drive operator-facing treatment: an
	// unstable weight means "wait and retry", a business-rule violation
	// means "fix selection/input".
	EDEVICEDISCONNECTED = "device_disconnected" // Scale indicator signalled loss
	EUNSTABLEWEIGHT     = "unstable_weight"     // Capture attempted without a settled reading
	EINVALIDDATA        = "invalid_data"        // Malformed sample from a collaborator
	EBUSINESSRULE       = "business_rule"       // Illegal transition, missing selection, weight gates
	EUNKNOWN            = "unknown"             // Uncategorized or persistence failure
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "weighing.capture_in")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		// For internal errors, return generic message
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Convenience constructors for common error types

// NotFound creates a not found error.
func NotFound(op, resource, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s with ID %q not found", resource, id),
	}
}

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// UnstableWeight creates an unstable-weight failure.
func UnstableWeight(op, message string) *Error {
	return &Error{
		Code:    EUNSTABLEWEIGHT,
		Op:      op,
		Message: message,
	}
}

// BusinessRule creates a business-rule violation.
func BusinessRule(op, message string) *Error {
	return &Error{
		Code:    EBUSINESSRULE,
		Op:      op,
		Message: message,
	}
}

// InvalidData creates a malformed-sample failure.
func InvalidData(op, message string) *Error {
	return &Error{
		Code:    EINVALIDDATA,
		Op:      op,
		Message: message,
	}
}

// DeviceDisconnected creates a hardware-loss failure.
func DeviceDisconnected(op, message string) *Error {
	return &Error{
		Code:    EDEVICEDISCONNECTED,
		Op:      op,
		Message: message,
	}
}

// Unknown creates an uncategorized failure, wrapping the underlying error.
// Persistence collaborator errors are remapped through this at the call
// boundary.
func Unknown(err error, op, message string) *Error {
	return &Error{
		Code:    EUNKNOWN,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents field-level validation errors.
type ValidationError struct {
	Op     string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed", e.Op)
}

// NewValidationError creates a new validation error with the first field error.
func NewValidationError(op, field, message string) *ValidationError {
	return &ValidationError{
		Op: op,
		Fields: map[string]string{
			field: message,
		},
	}
}
