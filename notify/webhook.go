package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/go-resty/resty/v2"
)

// WebhookPayload is the JSON body posted to generic webhooks
type WebhookPayload struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// WebhookChannel posts alerts to a generic HTTP endpoint
type WebhookChannel struct {
	client *resty.Client
	url    string
	now    func() time.Time
}

// NewWebhookChannel creates a new webhook channel
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    cfg.URL,
		now:    time.Now,
	}
}

// Name returns the channel name
func (c *WebhookChannel) Name() string {
	return ChannelWebhook
}

// Send posts the message with the current timestamp
func (c *WebhookChannel) Send(ctx context.Context, title, message string) error {
	if c.url == "" {
		return NewChannelError(ChannelWebhook, "url is required", ErrMissingSetting)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(WebhookPayload{
			Message:   message,
			Timestamp: c.now().Format(time.RFC3339),
		}).
		Post(c.url)

	if err != nil {
		return NewChannelError(ChannelWebhook, "webhook request failed", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return NewChannelError(ChannelWebhook,
			fmt.Sprintf("webhook returned status %d: %s", resp.StatusCode(), resp.String()),
			ErrUnexpectedReply)
	}

	return nil
}
