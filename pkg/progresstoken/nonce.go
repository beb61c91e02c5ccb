package progresstoken

import (
	"time"

	"github.com/google/uuid"
)

// GenerateNonce returns a random version 4 UUID. It is used both as the
// token nonce and as the session identifier.
func GenerateNonce() string {
	return uuid.NewString()
}

// IsValidStepProgression reports whether a holder at current may move to
// requested: exactly one step forward, or straight to CompletionStep.
func IsValidStepProgression(current, requested int) bool {
	return requested == current+1 || requested == CompletionStep
}

// CreateExpiration returns the wall-clock instant minutes from now.
func CreateExpiration(minutes int) time.Time {
	return ExpiresAfter(time.Now(), time.Duration(minutes)*time.Minute)
}

// ExpiresAfter returns the exp instant for a token minted at from with
// lifetime ttl, at the millisecond precision carried on the wire.
func ExpiresAfter(from time.Time, ttl time.Duration) time.Time {
	return time.UnixMilli(from.Add(ttl).UnixMilli())
}
