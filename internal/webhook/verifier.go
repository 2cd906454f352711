// Package webhook authenticates inbound Shopify webhook deliveries.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Shopify-Hmac-SHA256"

var (
	// ErrMissingSecret means the shared secret is not configured. Callers
	// must treat it as a server configuration error, never as verified.
	ErrMissingSecret = errors.New("webhook secret not configured")
	// ErrMissingSignature means the delivery carried no signature header.
	ErrMissingSignature = errors.New("signature header is missing")
	// ErrInvalidSignature means the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Sign returns base64(HMAC-SHA256(body, secret)).
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the base64 HMAC-SHA256 of rawBody
// keyed with secret. An empty secret or signature never verifies.
func Verify(rawBody []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(rawBody, secret)), []byte(signature))
}

// Verifier is the authentication stage that runs before any processing.
type Verifier struct {
	secret string
}

// NewVerifier creates a Verifier bound to the shared secret. An empty
// secret is accepted here and reported by Check on every request.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Configured reports whether a shared secret is present.
func (v *Verifier) Configured() bool {
	return v.secret != ""
}

// Check authenticates a delivery. The secret is checked before the
// signature so a misconfigured deployment is never mistaken for a bad
// sender.
func (v *Verifier) Check(rawBody []byte, signature string) error {
	if v.secret == "" {
		return ErrMissingSecret
	}
	if signature == "" {
		return ErrMissingSignature
	}
	if !Verify(rawBody, signature, v.secret) {
		return ErrInvalidSignature
	}
	return nil
}
