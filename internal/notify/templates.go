package notify

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	TemplateContact             = "contact"
	TemplateNewApplication      = "new_application"
	TemplateApplicationReceived = "application_received"
	TemplateStatusUpdate        = "status_update"
)

type Templates struct {
	sets map[string]*template.Template
}

func LoadTemplates() (*Templates, error) {
	names := []string{TemplateContact, TemplateNewApplication, TemplateApplicationReceived, TemplateStatusUpdate}
	t := &Templates{sets: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		set, err := template.New(name).Option("missingkey=zero").ParseFS(templateFS, "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		t.sets[name] = set
	}
	return t, nil
}

// Render produces the subject and plain text body. Unknown keys render as empty strings.
func (t *Templates) Render(name string, data map[string]string) (subject, body string, err error) {
	set, ok := t.sets[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}

	var sb, bb bytes.Buffer
	if err := set.ExecuteTemplate(&sb, "subject", data); err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	if err := set.ExecuteTemplate(&bb, "body", data); err != nil {
		return "", "", fmt.Errorf("failed to render body: %w", err)
	}
	return strings.TrimSpace(sb.String()), strings.TrimSpace(bb.String()) + "\n", nil
}
