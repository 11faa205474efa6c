package notify

import (
	"context"
	"fmt"

	resend "github.com/resend/resend-go/v3"
)

// ResendProvider emails the operator address via the Resend API.
type ResendProvider struct {
	from   string
	to     string
	client *resend.Client
}

func NewResendProvider(apiKey, from, to string) *ResendProvider {
	return &ResendProvider{
		from:   from,
		to:     to,
		client: resend.NewClient(apiKey),
	}
}

func (r *ResendProvider) Notify(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("message is required")
	}
	if r.client == nil {
		return fmt.Errorf("resend client not configured")
	}

	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{r.to},
		Subject: message.Subject,
		Text:    message.Body,
	}
	if params.Text == "" {
		return fmt.Errorf("notification body is empty")
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send notification via resend: %w", err)
	}
	return nil
}
