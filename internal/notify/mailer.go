// Package notify sends transactional email. Delivery is best effort: callers
// never fail a request because a message could not be sent.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipients = errors.New("message has no recipients")

// FallbackMailer tries each mailer in order and stops at the first success.
type FallbackMailer struct {
	mailers []Mailer
}

func NewFallbackMailer(mailers ...Mailer) *FallbackMailer {
	return &FallbackMailer{mailers: mailers}
}

func (f *FallbackMailer) Name() string {
	names := make([]string, len(f.mailers))
	for i, m := range f.mailers {
		names[i] = m.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *FallbackMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	var errs []error
	for _, m := range f.mailers {
		err := m.Send(ctx, msg)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("provider", m.Name()).Str("subject", msg.Subject).Msg("email provider failed")
		errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
	}
	if len(errs) == 0 {
		return errors.New("no email providers configured")
	}
	return errors.Join(errs...)
}

// LogMailer records messages instead of delivering them. Used when no provider is configured.
type LogMailer struct{}

func (LogMailer) Name() string { return "log" }

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.Text)).
		Msg("email not sent, no provider configured")
	return nil
}
