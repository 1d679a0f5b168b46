package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun sends through the Mailgun HTTP API from a fixed sender address.
type Mailgun struct {
	From     string
	Timeout  time.Duration
	Attempts int
	client   *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{From: from, Timeout: 10 * time.Second, Attempts: 2, client: mg.NewMailgun(domain, apiKey)}
}

// Send retries once on failure before giving up; the worker requeues after that.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.From, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	var err error
	for attempt := 1; attempt <= max(m.Attempts, 1); attempt++ {
		c, cancel := context.WithTimeout(ctx, m.Timeout)
		_, _, err = m.client.Send(c, msg)
		cancel()
		if err == nil || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}
