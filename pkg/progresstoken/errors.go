package progresstoken

import (
	"errors"
	"fmt"
)

// Reason identifies why a token was rejected. It is meant for logs and
// metrics and must not be reported to the token holder.
type Reason string

const (
	ReasonMalformed     Reason = "malformed"      // not three dot-separated segments
	ReasonSignature     Reason = "signature"      // MAC mismatch, non-canonical signature or unexpected algorithm
	ReasonDecode        Reason = "decode"         // correctly signed, but header or body did not decode
	ReasonMissingClaims Reason = "missing_claims" // sessionId, step or nonce absent
	ReasonExpired       Reason = "expired"        // exp <= now
)

var (
	// ErrVerificationFailed matches every *VerificationError.
	ErrVerificationFailed = errors.New("progress token verification failed")

	// ErrEncoding indicates a token could not be produced.
	ErrEncoding = errors.New("progress token encoding failed")
)

// VerificationError is returned by Verify for every rejected token.
type VerificationError struct {
	Reason Reason
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrVerificationFailed, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s (%s)", ErrVerificationFailed, e.Reason)
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerificationFailed
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the rejection reason carried by err, or "" when err is
// not a verification failure.
func ReasonOf(err error) Reason {
	var ve *VerificationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

// EncodingError is returned by Sign when the claims cannot be serialized or
// signed.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %v", ErrEncoding, e.Err)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
