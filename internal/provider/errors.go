package provider

import (
	"errors"
	"fmt"

	pstrings "kontra/pkg/platform/strings"
)

// ErrorCategory defines the normalized failure taxonomy for registry calls.
type ErrorCategory string

const (
	// ErrorConfig indicates a missing or rejected credential. Fatal, never retried.
	ErrorConfig ErrorCategory = "config"

	// ErrorTimeout indicates the provider took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorNetwork indicates the request never completed (DNS, connection reset).
	ErrorNetwork ErrorCategory = "network"

	// ErrorNotFound indicates the tax ID is unknown to the provider.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorProvider indicates the provider reported a generic error.
	ErrorProvider ErrorCategory = "provider"

	// ErrorMalformed indicates the response body could not be decoded.
	ErrorMalformed ErrorCategory = "malformed"
)

// providerMessageLimit caps provider-supplied text carried in errors so a
// hostile or broken payload cannot leak formatting-breaking content into a
// rendered report.
const providerMessageLimit = 200

// Error wraps registry failures with normalized categorization. The client
// performs no retries itself; Retryable tells the caller whether one is worth
// attempting.
type Error struct {
	Category   ErrorCategory
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("registry [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("registry [%s]: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a normalized registry error. Provider-supplied messages are
// length-capped.
func NewError(category ErrorCategory, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Message:    pstrings.Truncate(message, providerMessageLimit),
		Underlying: underlying,
		Retryable:  category == ErrorTimeout || category == ErrorNetwork,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// CategoryOf extracts the error category, defaulting to ErrorProvider.
func CategoryOf(err error) ErrorCategory {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorProvider
}
