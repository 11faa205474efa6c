package erp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrCredentialsNotConfigured is a configuration fault, not an upstream one:
// the caller gets a 500-equivalent and nothing is submitted.
var ErrCredentialsNotConfigured = errors.New("accu360 API credentials not configured")

// ErrAddressDefaultsNotConfigured is raised when the deployment-wide
// city/province defaults required for address creation are missing.
var ErrAddressDefaultsNotConfigured = errors.New("accu360 address defaults not configured (city/province)")

// UpstreamError is any non-success ERP outcome: non-2xx status, malformed or
// empty body, network failure, timeout. Message carries the best available
// human-readable explanation extracted from the response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("accu360 error: %s", e.Message)
}

const emptyResponseMessage = "empty response from Accu360"

// upstreamError builds an UpstreamError from a failed response, trying the
// error-message fields Frappe deployments variously populate, then the raw
// body text, then a generic empty-response message.
func upstreamError(status int, body []byte) *UpstreamError {
	decoded := safeJSON(body)

	for _, key := range []string{"error", "message", "detail", "exception"} {
		if msg := stringField(decoded, key); strings.TrimSpace(msg) != "" {
			return &UpstreamError{StatusCode: status, Message: msg}
		}
	}

	if msg := serverMessage(decoded); msg != "" {
		return &UpstreamError{StatusCode: status, Message: msg}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return &UpstreamError{StatusCode: status, Message: text}
	}

	return &UpstreamError{StatusCode: status, Message: emptyResponseMessage}
}

// serverMessage digs into Frappe's _server_messages field: a JSON-encoded
// array of JSON-encoded objects, each with a "message" key.
func serverMessage(decoded map[string]any) string {
	raw := stringField(decoded, "_server_messages")
	if raw == "" {
		return ""
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || len(entries) == 0 {
		return ""
	}

	var entry struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(entries[0]), &entry); err != nil {
		return ""
	}
	return strings.TrimSpace(entry.Message)
}
