package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookProvider posts notifications as JSON to an ops channel URL
// (Slack-compatible payload shape).
type WebhookProvider struct {
	url        string
	httpClient *http.Client
}

func NewWebhookProvider(url string) *WebhookProvider {
	return &WebhookProvider{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookProvider) Notify(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("message is required")
	}

	payload, err := json.Marshal(map[string]string{
		"text": message.Subject + "\n" + message.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("failed to read notification response: %w", readErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close notification response body: %w", closeErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
