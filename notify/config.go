package notify

import (
	"github.com/Cyvadra/farewatch/internal/config"
)

// NewChannels builds the enabled channels in dispatch order:
// desktop, email, telegram, webhook.
func NewChannels(cfg config.NotificationsConfig) []Channel {
	var channels []Channel

	if cfg.Desktop.Enabled {
		channels = append(channels, NewDesktopChannel(cfg.Desktop.AppName))
	}
	if cfg.Email.Enabled {
		channels = append(channels, NewEmailChannel(cfg.Email))
	}
	if cfg.Telegram.Enabled {
		channels = append(channels, NewTelegramChannel(cfg.Telegram))
	}
	if cfg.Webhook.Enabled {
		channels = append(channels, NewWebhookChannel(cfg.Webhook))
	}

	return channels
}

// NewDispatcherFromConfig creates a dispatcher over the enabled channels
func NewDispatcherFromConfig(cfg config.NotificationsConfig) *Dispatcher {
	return NewDispatcher(NewChannels(cfg)...)
}
