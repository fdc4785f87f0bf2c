package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeParse           ErrorType = "parse"
	ErrorTypeRecognition     ErrorType = "recognition"
	ErrorTypeDatasetMismatch ErrorType = "dataset_mismatch"
	ErrorTypeFatalIO         ErrorType = "fatal_io"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeInternal        ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	ExitCode   int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewParseError marks a malformed manifest line. Recovered locally: the line
// is skipped and the skip count surfaced on the summary.
func NewParseError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeParse,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		ExitCode:   3,
		Cause:      cause,
	}
}

// NewRecognitionError marks a failed engine call. Recovered locally as a
// failed outcome, never aborts a run.
func NewRecognitionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRecognition,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		ExitCode:   4,
		Cause:      cause,
	}
}

// NewDatasetMismatchError marks a comparator precondition violation. Fatal for
// the comparison, does not corrupt per-engine summaries.
func NewDatasetMismatchError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatasetMismatch,
		Message:    message,
		StatusCode: http.StatusConflict,
		ExitCode:   5,
		Cause:      cause,
	}
}

// NewFatalIOError marks a missing or unreadable dataset input. Aborts the run.
func NewFatalIOError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeFatalIO,
		Message:    message,
		StatusCode: http.StatusNotFound,
		ExitCode:   2,
		Cause:      cause,
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConfig,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		ExitCode:   1,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		ExitCode:   4,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		ExitCode:   99,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetExitCode maps an error to a process exit code. Nil maps to 0.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return 99
}
