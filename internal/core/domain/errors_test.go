package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("AW-TEST-1000", "test message"),
			expected: "[AW-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("AW-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[AW-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("AW-TEST-1000", "message 1")
	err2 := NewDomainError("AW-TEST-1000", "message 2")
	err3 := NewDomainError("AW-TEST-1001", "message 1")

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}

	// Wrapped sentinels still match
	wrapped := fmt.Errorf("advance: %w", ErrInvalidTransition.WithDetails("0 -> 2"))
	if !errors.Is(wrapped, ErrInvalidTransition) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := ErrStorage.WithCause(cause)

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if errors.Unwrap(ErrStorage) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_WithDetails(t *testing.T) {
	withDetails := ErrSessionNotFound.WithDetails("abc")

	if ErrSessionNotFound.Details != "" {
		t.Error("WithDetails should not modify the sentinel")
	}
	if withDetails.Details != "abc" {
		t.Errorf("Details = %q, want %q", withDetails.Details, "abc")
	}
	if withDetails.Code != ErrSessionNotFound.Code {
		t.Error("Code should be preserved")
	}
}

func TestIsDomainError(t *testing.T) {
	err := ErrUnauthorized.WithDetails("expired")

	if !IsDomainError(err, "") {
		t.Error("IsDomainError(err, \"\") should be true")
	}
	if !IsDomainError(err, "AW-TOKN-4010") {
		t.Error("IsDomainError should match code")
	}
	if IsDomainError(err, "AW-SESS-4040") {
		t.Error("IsDomainError should not match a different code")
	}
	if IsDomainError(fmt.Errorf("plain"), "") {
		t.Error("IsDomainError should be false for plain errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(fmt.Errorf("x: %w", ErrPrematureCompletion)); got != "AW-SESS-4002" {
		t.Errorf("GetErrorCode() = %q, want AW-SESS-4002", got)
	}
	if got := GetErrorCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetErrorCode() = %q, want empty", got)
	}
}

func TestErrorCodesUnique(t *testing.T) {
	all := []*DomainError{
		ErrMalformedRequest, ErrSessionNotFound, ErrInvalidTransition,
		ErrPrematureCompletion, ErrSessionConflict, ErrUnauthorized,
		ErrTokenEncoding, ErrInternal, ErrStorage, ErrServiceUnavailable,
	}
	seen := make(map[string]bool)
	for _, e := range all {
		if seen[e.Code] {
			t.Errorf("duplicate error code %s", e.Code)
		}
		seen[e.Code] = true
	}
}
