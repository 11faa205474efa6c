package erp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Accu360-Signature"

func ValidateWebhookSignature(payload []byte, signature, secret string) error {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return fmt.Errorf("empty signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// ReadWebhookPayload reads and authenticates a webhook delivery. Status
// mutations must never be applied to an unverified payload.
func ReadWebhookPayload(r *http.Request, secret string) ([]byte, error) {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return nil, fmt.Errorf("missing signature header")
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if err := ValidateWebhookSignature(payload, signature, secret); err != nil {
		return nil, fmt.Errorf("webhook signature validation failed: %w", err)
	}

	return payload, nil
}
