package progresstoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CompletionStep is the sentinel step meaning the experience is finished.
const CompletionStep = 999

// Claims is the decoded content of a progress token.
type Claims struct {
	SessionID string
	Step      int
	Nonce     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// wireClaims is the JSON body of a token. Step is a pointer so a missing
// step can be told apart from step 0.
type wireClaims struct {
	SessionID string `json:"sessionId"`
	Step      *int   `json:"step"`
	Nonce     string `json:"nonce"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

func newWireClaims(c Claims) *wireClaims {
	step := c.Step
	return &wireClaims{
		SessionID: c.SessionID,
		Step:      &step,
		Nonce:     c.Nonce,
		Exp:       c.ExpiresAt.UnixMilli(),
		Iat:       c.IssuedAt.UnixMilli(),
	}
}

func (w *wireClaims) claims() *Claims {
	return &Claims{
		SessionID: w.SessionID,
		Step:      *w.Step,
		Nonce:     w.Nonce,
		ExpiresAt: time.UnixMilli(w.Exp),
		IssuedAt:  time.UnixMilli(w.Iat),
	}
}

func (w *wireClaims) complete() bool {
	return w.SessionID != "" && w.Step != nil && w.Nonce != ""
}

// jwt.Claims. Times are kept in milliseconds on the wire, so the registered
// getters convert; the parser runs with claims validation disabled and the
// codec checks expiry itself.

func (w *wireClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.UnixMilli(w.Exp)), nil
}

func (w *wireClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.UnixMilli(w.Iat)), nil
}

func (w *wireClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (w *wireClaims) GetIssuer() (string, error) { return "", nil }

func (w *wireClaims) GetSubject() (string, error) { return w.SessionID, nil }

func (w *wireClaims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }
