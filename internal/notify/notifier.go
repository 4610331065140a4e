package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
)

type NotifierConfig struct {
	// AutomationEnabled gates candidate and recruiter emails. Contact notifications are always sent.
	AutomationEnabled bool
	NotificationEmail string
	Timeout           time.Duration
}

// Notifier renders templates and hands messages to a Mailer in the background.
type Notifier struct {
	mailer    Mailer
	templates *Templates
	cfg       NotifierConfig
	wg        sync.WaitGroup
}

func NewNotifier(mailer Mailer, templates *Templates, cfg NotifierConfig) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Notifier{mailer: mailer, templates: templates, cfg: cfg}
}

func (n *Notifier) ContactSubmitted(s *domain.ContactSubmission) {
	if n.cfg.NotificationEmail == "" {
		return
	}
	n.dispatch(TemplateContact, []string{n.cfg.NotificationEmail}, map[string]string{
		"Name":     s.Name,
		"Email":    s.Email,
		"Phone":    s.Phone,
		"Company":  s.Company,
		"Location": s.Location,
		"Message":  s.Message,
	})
}

// ApplicationSubmitted confirms receipt to the candidate and alerts the recruiter.
func (n *Notifier) ApplicationSubmitted(job *domain.Job, app *domain.Application, recruiter *domain.User) {
	if !n.cfg.AutomationEnabled {
		return
	}
	data := applicationData(job, app)

	n.dispatch(TemplateApplicationReceived, []string{app.Email}, data)

	var to []string
	if recruiter != nil && looksLikeEmail(recruiter.Username) {
		to = append(to, recruiter.Username)
	}
	if n.cfg.NotificationEmail != "" {
		to = append(to, n.cfg.NotificationEmail)
	}
	if len(to) > 0 {
		n.dispatch(TemplateNewApplication, to, data)
	}
}

func (n *Notifier) ApplicationStatusChanged(job *domain.Job, app *domain.Application) {
	if !n.cfg.AutomationEnabled {
		return
	}
	data := applicationData(job, app)
	data["Status"] = string(app.Status)
	data["Notes"] = app.Notes
	n.dispatch(TemplateStatusUpdate, []string{app.Email}, data)
}

// Wait blocks until queued messages have been handed to the mailer.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(name string, to []string, data map[string]string) {
	subject, body, err := n.templates.Render(name, data)
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render email")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
		defer cancel()

		if err := n.mailer.Send(ctx, Message{To: to, Subject: subject, Text: body}); err != nil {
			log.Error().Err(err).Str("template", name).Msg("failed to send email")
			return
		}
		log.Debug().Str("template", name).Strs("to", to).Msg("email sent")
	}()
}

func applicationData(job *domain.Job, app *domain.Application) map[string]string {
	return map[string]string{
		"JobTitle":       job.Title,
		"JobLocation":    job.Location,
		"CandidateName":  app.Name,
		"CandidateEmail": app.Email,
		"CandidatePhone": app.Phone,
		"ResumeURL":      app.ResumeURL,
	}
}

func looksLikeEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at:], ".")
}
