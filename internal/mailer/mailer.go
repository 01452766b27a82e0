// Package mailer builds summary emails and hands them to an SMTP relay.
package mailer

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/hyperjump/minutes/internal/config"
	"github.com/hyperjump/minutes/internal/models"
)

var (
	// ErrAuth means the relay rejected the configured account.
	ErrAuth = errors.New("mail relay authentication failed")
	// ErrDelivery covers every other relay failure.
	ErrDelivery = errors.New("mail delivery failed")
)

// Message is a fully built outgoing email.
type Message struct {
	FromName    string
	FromAddress string
	// To is the comma separated destination list.
	To      string
	Subject string
	Text    string
	HTML    string
}

// Recipients splits To back into addresses.
func (m *Message) Recipients() []string {
	return models.ParseRecipients(m.To)
}

// Sender delivers a message. Implementations wrap failures with ErrAuth or ErrDelivery.
type Sender interface {
	SendMail(ctx context.Context, msg *Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg *Message) error

// SendMail calls f.
func (f SenderFunc) SendMail(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Defaults are the per-deployment values every message inherits.
type Defaults struct {
	FromName    string
	FromAddress string
	Subject     string
}

// DefaultsFromConfig takes the sender identity from the relay account.
func DefaultsFromConfig(cfg config.MailConfig) Defaults {
	return Defaults{
		FromName:    cfg.FromName,
		FromAddress: cfg.Username,
		Subject:     cfg.DefaultSubject,
	}
}

// BuildMessage turns a validated request into a message. The HTML part is the escaped
// text in one paragraph with newlines rendered as <br>.
func BuildMessage(req *models.EmailRequest, d Defaults) *Message {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = d.Subject
	}
	if subject == "" {
		subject = config.DefaultSubject
	}
	return &Message{
		FromName:    d.FromName,
		FromAddress: d.FromAddress,
		To:          strings.Join(req.Recipients, ","),
		Subject:     subject,
		Text:        req.Message,
		HTML:        renderHTML(req.Message),
	}
}

func renderHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}
