package mail

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"
)

const (
	DonationConfirmation          = "donation_confirmation"
	RecurringDonationConfirmation = "recurring_donation_confirmation"
	RecurringDonationWelcome      = "recurring_donation_welcome"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Data is the context handed to a notification template.
type Data struct {
	FirstName      string
	LastName       string
	Amount         string
	AdjustedAmount string
	Waived         bool
	TransactionID  string
}

// Templates holds message templates keyed by name. Each template defines
// a "subject" and a "body".
type Templates struct {
	byName map[string]*template.Template
}

func LoadTemplates() (*Templates, error) {
	return ParseTemplates(templateFS, "templates")
}

func ParseTemplates(fsys fs.FS, dir string) (*Templates, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	t := &Templates{byName: make(map[string]*template.Template)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".tmpl" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".tmpl")
		tmpl, err := template.New(name).Option("missingkey=error").ParseFS(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		for _, part := range []string{"subject", "body"} {
			if tmpl.Lookup(part) == nil {
				return nil, fmt.Errorf("template %s: missing %q block", name, part)
			}
		}
		t.byName[name] = tmpl
	}
	return t, nil
}

func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template and returns its subject and body.
func (t *Templates) Render(name string, data Data) (string, string, error) {
	tmpl, ok := t.byName[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}

	var subject, body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tmpl.ExecuteTemplate(&body, "body", data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}

	return strings.TrimSpace(subject.String()), body.String(), nil
}
