package types

import "fmt"

// ErrorCode represents a unified error code across the planner.
type ErrorCode string

// Request/validation error codes
const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrValidation      ErrorCode = "VALIDATION_ERROR"
	ErrUnknownIndustry ErrorCode = "UNKNOWN_INDUSTRY"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
)

// Catalog error codes
const (
	ErrNoCandidateAgents   ErrorCode = "NO_CANDIDATE_AGENTS"
	ErrAgentNotFound       ErrorCode = "AGENT_NOT_FOUND"
	ErrAgentExists         ErrorCode = "AGENT_EXISTS"
	ErrReservationConflict ErrorCode = "RESERVATION_CONFLICT"
)

// Internal error codes
const (
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`

	// Field names the offending task field for validation errors.
	Field string `json:"field,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewValidationError creates a VALIDATION_ERROR naming the offending field.
func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrValidation, Message: message, Field: field}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithField names the request field the error refers to.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
