package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// ErrInvalidWebhookSignature is returned when a webhook body does not match
// its X-Shopify-Hmac-SHA256 header.
var ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

// WebhookVerifier checks webhook signatures. Shopify signs the raw request
// body with the app's client secret and sends the digest base64-encoded.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier for the given signing secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Verify checks the signature over the raw request body.
func (v *WebhookVerifier) Verify(payload []byte, signature string) error {
	if len(v.secret) == 0 {
		return errors.New("webhook signing secret not configured")
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidWebhookSignature
	}
	return nil
}
