package security

import "crypto/subtle"

// CSRFValidator checks caller-supplied tokens against a configured secret.
type CSRFValidator struct {
	secret string
}

// NewCSRFValidator creates a validator for the given shared secret.
func NewCSRFValidator(secret string) *CSRFValidator {
	return &CSRFValidator{secret: secret}
}

// Valid reports whether the token matches the configured secret. The
// comparison is constant-time so the match does not leak through timing.
func (v *CSRFValidator) Valid(token string) bool {
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.secret)) == 1
}
