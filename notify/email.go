package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/jordan-wright/email"
)

// EmailChannel submits alerts over SMTP, upgrading the session with STARTTLS
type EmailChannel struct {
	cfg config.EmailConfig
}

// NewEmailChannel creates a new email channel
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

// Name returns the channel name
func (c *EmailChannel) Name() string {
	return ChannelEmail
}

// Send builds a plain-text mail and submits it
func (c *EmailChannel) Send(ctx context.Context, title, message string) error {
	if c.cfg.SMTPServer == "" || c.cfg.SenderEmail == "" || c.cfg.RecipientEmail == "" {
		return NewChannelError(ChannelEmail, "smtp_server, sender_email and recipient_email are required", ErrMissingSetting)
	}

	mail := email.NewEmail()
	mail.From = c.cfg.SenderEmail
	mail.To = []string{c.cfg.RecipientEmail}
	mail.Subject = title
	mail.Text = []byte(message)

	addr := fmt.Sprintf("%s:%d", c.cfg.SMTPServer, c.cfg.SMTPPort)
	auth := smtp.PlainAuth("", c.cfg.SenderEmail, c.cfg.SenderPassword, c.cfg.SMTPServer)

	if err := mail.SendWithStartTLS(addr, auth, &tls.Config{ServerName: c.cfg.SMTPServer}); err != nil {
		return NewChannelError(ChannelEmail, "smtp submit failed", err)
	}
	return nil
}
