// services/signature.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "x-paymentpoint-signature"

// SignatureVerifier authenticates PaymentPoint webhooks with the shared
// secret key.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier refuses an empty secret; an unconfigured key is a
// startup error, never a runtime bypass.
func NewSignatureVerifier(secret string) (*SignatureVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("webhook secret is not configured")
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// Sign returns the header value PaymentPoint would send for body.
func (v *SignatureVerifier) Sign(body []byte) string {
	return hex.EncodeToString(v.mac(body))
}

// Verify checks header against the HMAC of the body bytes exactly as received.
func (v *SignatureVerifier) Verify(body []byte, header string) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return fmt.Errorf("%w: missing %s header", ErrUnauthorized, SignatureHeader)
	}
	got, err := hex.DecodeString(strings.ToLower(header))
	if err != nil {
		return fmt.Errorf("%w: malformed signature", ErrUnauthorized)
	}
	if !hmac.Equal(got, v.mac(body)) {
		return fmt.Errorf("%w: signature mismatch", ErrUnauthorized)
	}
	return nil
}

func (v *SignatureVerifier) mac(body []byte) []byte {
	m := hmac.New(sha256.New, v.secret)
	m.Write(body)
	return m.Sum(nil)
}
