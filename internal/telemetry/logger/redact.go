package logger

import (
	"log/slog"
	"strings"
)

// tokenPrefix starts every progress token: base64url of `{"`.
const tokenPrefix = "eyJ"

// Key fragments whose values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks progress tokens wherever they appear and replaces
// values under sensitive keys.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if IsSensitiveValue(v) {
			return slog.String(a.Key, maskToken(v))
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskToken keeps the first and last four characters of the signature
// segment so two log lines can be correlated without leaking a usable token.
func maskToken(value string) string {
	sig := value[strings.LastIndex(value, ".")+1:]
	if len(sig) <= 8 {
		return tokenPrefix + "***"
	}
	return tokenPrefix + "***." + sig[:4] + "..." + sig[len(sig)-4:]
}

// RedactString masks value if it looks like a progress token.
func RedactString(value string) string {
	if IsSensitiveValue(value) {
		return maskToken(value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value has the shape of a signed token.
func IsSensitiveValue(value string) bool {
	return strings.HasPrefix(value, tokenPrefix) && strings.Count(value, ".") == 2
}
