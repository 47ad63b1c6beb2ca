package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"
	ErrConfigValid  ErrorCode = "CONFIG_INVALID"
	ErrConfigFormat ErrorCode = "CONFIG_FORMAT"

	// Numeric literal errors
	ErrParse ErrorCode = "PARSE"

	// Layout errors
	ErrValidation ErrorCode = "VALIDATION"
	ErrCompose    ErrorCode = "COMPOSE"
)

// FwError represents a structured error with code and details
type FwError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FwError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FwError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FwError) Is(target error) bool {
	var targetErr *FwError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FwError with the given code and message
func New(code ErrorCode, message string) *FwError {
	return &FwError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FwError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FwError {
	return &FwError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FwError
func Wrap(err error, code ErrorCode, message string) *FwError {
	if err == nil {
		return nil
	}
	return &FwError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FwError {
	if err == nil {
		return nil
	}
	return &FwError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FwError) WithDetail(key string, value interface{}) *FwError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FwError) WithDetails(details map[string]interface{}) *FwError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fwErr *FwError
	if errors.As(err, &fwErr) {
		return fwErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FwError
func GetErrorCode(err error) ErrorCode {
	var fwErr *FwError
	if errors.As(err, &fwErr) {
		return fwErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FwError
func GetErrorDetails(err error) map[string]interface{} {
	var fwErr *FwError
	if errors.As(err, &fwErr) {
		return fwErr.Details
	}
	return nil
}

// UserMessage returns the message of the outermost FwError in err's chain
// followed by its wrapped cause, without the code prefix. Other errors are
// returned as-is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fwErr *FwError
	if !errors.As(err, &fwErr) {
		return err.Error()
	}
	if fwErr.Wrapped != nil {
		return fmt.Sprintf("%s: %s", fwErr.Message, UserMessage(fwErr.Wrapped))
	}
	return fwErr.Message
}
