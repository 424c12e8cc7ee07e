package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/go-resty/resty/v2"
)

// TelegramChannel posts alerts through the Telegram bot API
type TelegramChannel struct {
	client *resty.Client
	cfg    config.TelegramConfig
}

// NewTelegramChannel creates a new Telegram channel
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.telegram.org"
	}
	return &TelegramChannel{
		client: resty.New().SetTimeout(10 * time.Second),
		cfg:    cfg,
	}
}

// Name returns the channel name
func (c *TelegramChannel) Name() string {
	return ChannelTelegram
}

// Send posts the message to the configured chat
func (c *TelegramChannel) Send(ctx context.Context, title, message string) error {
	if c.cfg.BotToken == "" || c.cfg.ChatID == "" {
		return NewChannelError(ChannelTelegram, "bot_token and chat_id are required", ErrMissingSetting)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(c.cfg.APIURL, "/"), c.cfg.BotToken)
	payload := map[string]interface{}{
		"chat_id":    c.cfg.ChatID,
		"text":       html.EscapeString(message),
		"parse_mode": "HTML",
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)

	if err != nil {
		return NewChannelError(ChannelTelegram, "telegram API request failed", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return NewChannelError(ChannelTelegram,
			fmt.Sprintf("telegram API returned status %d: %s", resp.StatusCode(), resp.String()),
			ErrUnexpectedReply)
	}

	return nil
}
