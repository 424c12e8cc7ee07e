package notify

import (
	"context"
)

// Channel names, in dispatch order
const (
	ChannelDesktop  = "desktop"
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
	ChannelWebhook  = "webhook"
)

// DefaultTitle is the subject line used for alert batches
const DefaultTitle = "Ticket Alert"

// Channel delivers one alert batch to a single destination.
// Implementations must not panic; every failure is returned as an error.
type Channel interface {
	// Name returns the channel name used in logs and reports
	Name() string

	// Send delivers message with the given title
	Send(ctx context.Context, title, message string) error
}
