package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// DesktopChannel shows alerts as a desktop popup
type DesktopChannel struct {
	appName string
	notify  func(title, message string) error
}

// NewDesktopChannel creates a new desktop channel
func NewDesktopChannel(appName string) *DesktopChannel {
	return &DesktopChannel{
		appName: appName,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Name returns the channel name
func (c *DesktopChannel) Name() string {
	return ChannelDesktop
}

// Send shows the popup
func (c *DesktopChannel) Send(ctx context.Context, title, message string) error {
	if c.appName != "" {
		title = c.appName + ": " + title
	}
	if err := c.notify(title, message); err != nil {
		return NewChannelError(ChannelDesktop, "popup failed", err)
	}
	return nil
}
