package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes have the form AW-{AREA}-{HTTP}{SEQ}; the four digit suffix starts
// with the HTTP status the transport layer reports for it.
type DomainError struct {
	Code    string // Error code (e.g., "AW-SESS-4040")
	Message string // Human-readable message, safe to return to callers
	Details string // Optional additional details, never sent to callers
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Request Errors (REQ)
// ============================================================================

var (
	// ErrMalformedRequest indicates missing or wrong-typed request fields.
	ErrMalformedRequest = NewDomainError("AW-REQ-4000", "malformed request")
)

// ============================================================================
// Session Errors (SESS)
// ============================================================================

var (
	// ErrSessionNotFound indicates no live session matches the id.
	ErrSessionNotFound = NewDomainError("AW-SESS-4040", "session not found")

	// ErrInvalidTransition indicates an illegal step jump.
	ErrInvalidTransition = NewDomainError("AW-SESS-4001", "invalid step progression")

	// ErrPrematureCompletion indicates completion was requested before the
	// minimum completion step was reached.
	ErrPrematureCompletion = NewDomainError("AW-SESS-4002", "experience not fully completed")

	// ErrSessionConflict indicates a generated session id already exists.
	ErrSessionConflict = NewDomainError("AW-SESS-4090", "session id conflict")
)

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrUnauthorized covers every token failure: bad signature, expiry,
	// malformed input and session mismatch. Callers never learn which.
	ErrUnauthorized = NewDomainError("AW-TOKN-4010", "invalid token")

	// ErrTokenEncoding indicates a token could not be signed or serialized.
	ErrTokenEncoding = NewDomainError("AW-TOKN-5001", "token encoding failed")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("AW-SYS-5000", "internal server error")

	// ErrStorage indicates a session store failure.
	ErrStorage = NewDomainError("AW-SYS-5001", "storage error")

	// ErrServiceUnavailable indicates the service is shutting down or its
	// store is unreachable.
	ErrServiceUnavailable = NewDomainError("AW-SYS-5030", "service unavailable")
)
