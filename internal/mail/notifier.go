package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/chelseasymphony/donations/internal/model"
)

// Message is a rendered email ready for a transport.
type Message struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Template string    `json:"template"`
	SentAt   time.Time `json:"sent_at"`
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TemplateNotifier renders a named template and hands it to a transport.
type TemplateNotifier struct {
	templates *Templates
	transport Transport
	from      string
}

func NewTemplateNotifier(templates *Templates, transport Transport, from string) *TemplateNotifier {
	return &TemplateNotifier{templates: templates, transport: transport, from: from}
}

func (n *TemplateNotifier) SendNotification(ctx context.Context, templateName, recipient string, data Data) error {
	subject, body, err := n.templates.Render(templateName, data)
	if err != nil {
		return err
	}

	msg := Message{
		From:     n.from,
		To:       recipient,
		Subject:  subject,
		Body:     body,
		Template: templateName,
		SentAt:   time.Now().UTC(),
	}
	if err := n.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: send %s to %s: %v", model.ErrMailDispatch, templateName, recipient, err)
	}
	return nil
}
