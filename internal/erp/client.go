// Package erp is a stateless façade over the Accu360 (Frappe-style) resource
// API: customer lookup/create/update, address create and sales order create.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL         string
	APIKey          string
	APISecret       string
	DefaultCity     string
	DefaultProvince string
	Timeout         time.Duration
}

type Client struct {
	baseURL         string
	apiKey          string
	apiSecret       string
	defaultCity     string
	defaultProvince string
	httpClient      *http.Client
}

const defaultRequestTimeout = 15 * time.Second

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		apiSecret:       cfg.APISecret,
		defaultCity:     cfg.DefaultCity,
		defaultProvince: cfg.DefaultProvince,
		httpClient:      newHTTPClient(timeout),
	}
}

func (c *Client) authorize(req *http.Request) error {
	if c.apiKey == "" || c.apiSecret == "" {
		return ErrCredentialsNotConfigured
	}

	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.apiKey, c.apiSecret))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return nil
}

// doJSON performs one authenticated request and returns the status code and
// raw body. Transport failures (including timeouts) are normalized to
// UpstreamError so the orchestrator treats them like any other ERP failure.
func (c *Client) doJSON(ctx context.Context, method, resourceURL string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, resourceURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return 0, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &UpstreamError{Message: err.Error()}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return resp.StatusCode, nil, &UpstreamError{StatusCode: resp.StatusCode, Message: readErr.Error()}
	}
	if closeErr != nil {
		return resp.StatusCode, nil, &UpstreamError{StatusCode: resp.StatusCode, Message: closeErr.Error()}
	}

	return resp.StatusCode, respBody, nil
}

func isSuccess(status int) bool {
	return status == http.StatusOK || status == http.StatusCreated
}

// safeJSON decodes a response body, tolerating empty or non-JSON payloads.
func safeJSON(body []byte) map[string]any {
	decoded := map[string]any{}
	if len(body) == 0 {
		return decoded
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]any{}
	}
	return decoded
}

func dataObject(decoded map[string]any) map[string]any {
	if data, ok := decoded["data"].(map[string]any); ok {
		return data
	}
	return nil
}

func stringField(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	if value, ok := obj[key].(string); ok {
		return value
	}
	return ""
}
