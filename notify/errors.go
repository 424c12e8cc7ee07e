package notify

import (
	"errors"
	"fmt"
)

// Common notification errors
var (
	ErrNoChannels      = errors.New("no notification channels enabled")
	ErrMissingSetting  = errors.New("missing channel setting")
	ErrUnexpectedReply = errors.New("unexpected response status")
)

// ChannelError represents a delivery failure on one channel
type ChannelError struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ChannelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Channel, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Channel, e.Message)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// NewChannelError creates a new channel error
func NewChannelError(channel, message string, err error) *ChannelError {
	return &ChannelError{
		Channel: channel,
		Message: message,
		Err:     err,
	}
}

// IsConfigError checks whether a delivery failed because the channel is misconfigured
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingSetting)
}
