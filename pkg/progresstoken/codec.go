package progresstoken

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies progress tokens with a shared HMAC secret.
//
// Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
	logger *slog.Logger
	parser *jwt.Parser
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for iat stamping and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used to record rejection reasons.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Codec. The secret must not be empty.
func New(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("progresstoken: empty secret")
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
		logger: slog.Default(),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Sign stamps IssuedAt with the current time and returns the signed token.
func (c *Codec) Sign(claims Claims) (string, error) {
	if claims.SessionID == "" {
		return "", &EncodingError{Err: errors.New("empty session id")}
	}
	if claims.Step < 0 {
		return "", &EncodingError{Err: fmt.Errorf("negative step %d", claims.Step)}
	}

	claims.IssuedAt = c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newWireClaims(claims))

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", &EncodingError{Err: err}
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
//
// The MAC is checked before header or body are decoded. Every failure is a
// *VerificationError; errors.Is(err, ErrVerificationFailed) holds for all
// of them. The reason is logged here and exposed through ReasonOf for
// metrics, never to the holder.
func (c *Codec) Verify(raw string) (*Claims, error) {
	if strings.Count(raw, ".") != 2 {
		return nil, c.reject(ReasonMalformed, "", nil)
	}
	if err := c.checkMAC(raw); err != nil {
		return nil, c.reject(ReasonSignature, "", err)
	}

	wc := &wireClaims{}
	if _, err := c.parser.ParseWithClaims(raw, wc, c.keyFunc); err != nil {
		return nil, c.reject(classify(err), wc.SessionID, err)
	}

	if wc.Exp <= c.now().UnixMilli() {
		return nil, c.reject(ReasonExpired, wc.SessionID, nil)
	}
	if !wc.complete() {
		return nil, c.reject(ReasonMissingClaims, wc.SessionID, nil)
	}

	return wc.claims(), nil
}

// CreateExpiration returns the instant minutes from now. Zero and negative
// values are allowed and yield already-expiring timestamps.
func (c *Codec) CreateExpiration(minutes int) time.Time {
	return c.ExpiresIn(time.Duration(minutes) * time.Minute)
}

// ExpiresIn returns the instant ttl from the codec's current time.
func (c *Codec) ExpiresIn(ttl time.Duration) time.Time {
	return ExpiresAfter(c.now(), ttl)
}

// Now returns the codec's current time.
func (c *Codec) Now() time.Time {
	return c.now()
}

// checkMAC verifies the HS256 MAC over the first two segments. The
// signature segment must be canonical base64url, so no two strings map to
// the same MAC.
func (c *Codec) checkMAC(raw string) error {
	dot := strings.LastIndexByte(raw, '.')
	sig, err := base64.RawURLEncoding.Strict().DecodeString(raw[dot+1:])
	if err != nil {
		return fmt.Errorf("signature segment: %w", err)
	}
	return jwt.SigningMethodHS256.Verify(raw[:dot], sig, c.secret)
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return c.secret, nil
}

func (c *Codec) reject(reason Reason, sessionID string, cause error) error {
	attrs := []any{slog.String("reason", string(reason))}
	if sessionID != "" {
		attrs = append(attrs, slog.String("session_id", sessionID))
	}
	if cause != nil {
		attrs = append(attrs, slog.String("detail", cause.Error()))
	}

	if reason == ReasonExpired {
		c.logger.Info("progress token expired", attrs...)
	} else {
		c.logger.Warn("progress token rejected", attrs...)
	}

	return &VerificationError{Reason: reason, Err: cause}
}

// classify maps a parser error to a rejection reason. The MAC has already
// passed by then, so a signature reason here means the header named
// another algorithm.
func classify(err error) Reason {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
		return ReasonSignature
	}
	return ReasonDecode
}
