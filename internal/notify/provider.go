// Package notify delivers fire-and-forget operator notifications. A failed
// order's only recovery path is a human reading these messages, so delivery
// problems are logged by the caller but never block order handling.
package notify

import (
	"context"
	"fmt"
)

type Provider interface {
	Notify(ctx context.Context, message *Message) error
}

type Message struct {
	Subject string
	Body    string
}

type Config struct {
	Provider   string
	APIKey     string
	FromEmail  string
	ToEmail    string
	WebhookURL string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "noop", "":
		return NoopProvider{}, nil
	case "resend":
		return NewResendProvider(cfg.APIKey, cfg.FromEmail, cfg.ToEmail), nil
	case "webhook":
		return NewWebhookProvider(cfg.WebhookURL), nil
	default:
		return nil, fmt.Errorf("NOTIFIER_PROVIDER must be 'noop', 'resend', or 'webhook'")
	}
}

// NoopProvider discards notifications. Used when no operator channel is
// configured, typically in development.
type NoopProvider struct{}

func (NoopProvider) Notify(ctx context.Context, message *Message) error {
	_ = ctx
	_ = message
	return nil
}
