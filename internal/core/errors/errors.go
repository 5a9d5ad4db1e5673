package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("action forbidden")
	ErrStaffInactive      = errors.New("staff account is deactivated")
	ErrStaffExists        = errors.New("staff account with this email already exists")

	// Ticket validation
	ErrInvalidTicketType = errors.New("invalid ticket type")
	ErrInvalidSequence   = errors.New("sequence number must be positive")
	ErrCategoryInactive  = errors.New("service category is inactive")
	ErrReasonRequired    = errors.New("cancellation reason is required")
	ErrInvalidCounter    = errors.New("counter number must be positive")

	// Lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")

	// Not found
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrCategoryNotFound = errors.New("service category not found")
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrNotInQueue       = errors.New("ticket is not in the waiting queue")

	// Queue
	ErrQueueEmpty = errors.New("no tickets waiting")

	// Sequence allocation
	ErrTransientConflict = errors.New("transient conflict, retry")
	ErrSequenceExhausted = errors.New("could not allocate a unique sequence number")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// IsTransient reports whether err should be retried by the bounded retry
// policy. Only sequence-allocation conflicts qualify; everything else
// propagates unchanged.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientConflict)
}

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
