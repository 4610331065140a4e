package notify

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

type MailgunMailer struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunMailer(domain, apiKey, from string) *MailgunMailer {
	return &MailgunMailer{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

// SetAPIBase points the client at a different endpoint, e.g. the EU region.
func (m *MailgunMailer) SetAPIBase(url string) {
	m.mg.SetAPIBase(url)
}

func (m *MailgunMailer) Name() string { return "mailgun" }

func (m *MailgunMailer) Send(ctx context.Context, msg Message) error {
	message := m.mg.NewMessage(m.from, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if _, _, err := m.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send via mailgun: %w", err)
	}
	return nil
}
