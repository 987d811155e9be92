package domain

import "fmt"

// Error codes returned by the advisors and the weather gateway.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

// AdvisorError represents domain-specific errors that can occur while
// producing advice. It provides structured error information with error
// codes and optional underlying causes.
type AdvisorError struct {
	// Code identifies the type of error for programmatic handling
	Code string

	// Message provides a human-readable error description
	Message string

	// Cause wraps an underlying error if applicable
	Cause error
}

// Error implements the error interface for AdvisorError.
func (e *AdvisorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *AdvisorError) Unwrap() error {
	return e.Cause
}

// InvalidInput builds an INVALID_INPUT error wrapping cause.
func InvalidInput(message string, cause error) *AdvisorError {
	return &AdvisorError{Code: CodeInvalidInput, Message: message, Cause: cause}
}

// UpstreamUnavailable builds an UPSTREAM_UNAVAILABLE error wrapping cause.
func UpstreamUnavailable(message string, cause error) *AdvisorError {
	return &AdvisorError{Code: CodeUpstreamUnavailable, Message: message, Cause: cause}
}
