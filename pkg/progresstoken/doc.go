// Package progresstoken signs and verifies the progress tokens handed to
// players between steps of the experience.
//
// Token Format:
//
//	base64url(header) "." base64url(claims) "." base64url(HMAC-SHA256)
//
// The header is fixed to {"alg":"HS256","typ":"JWT"}. The claims carry the
// session id, the step the holder has reached, a random nonce and the
// expiry/issue times in Unix milliseconds:
//
//	{"sessionId":"...","step":1,"nonce":"...","exp":1730000000000,"iat":1729999700000}
//
// Step 999 (CompletionStep) marks a finished experience and is always a
// legal progression target.
//
// Security:
//
//   - HMAC comparison is constant time
//   - only HS256 is accepted, "none" and asymmetric algorithms are rejected
//   - every verification failure looks the same to callers; the reason is
//     only available to logs and metrics through VerificationError
//   - the nonce is carried but not tracked, so a token can be replayed until
//     it expires
package progresstoken
