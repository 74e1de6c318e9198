// Package mail sends transactional email through Resend.
package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/oggyb/ideaji/internal/config"
)

// Mailer sends email via Resend. Without an API key it only logs.
type Mailer struct {
	client *resend.Client
	from   string
	appURL string
	logger *slog.Logger
}

// New builds a Mailer from config. RESEND_API_KEY empty disables delivery.
func New(cfg *config.Config, logger *slog.Logger) *Mailer {
	m := &Mailer{from: cfg.Mail.From, appURL: cfg.Mail.AppURL, logger: logger}
	if cfg.Mail.ResendAPIKey != "" {
		m.client = resend.NewClient(cfg.Mail.ResendAPIKey)
	}
	return m
}

// NewWithClient wires a preconfigured client, e.g. one pointed at a test server.
func NewWithClient(client *resend.Client, from, appURL string, logger *slog.Logger) *Mailer {
	return &Mailer{client: client, from: from, appURL: appURL, logger: logger}
}

func (m *Mailer) Enabled() bool { return m.client != nil }

// Send delivers one HTML email and returns the provider message id.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) (string, error) {
	if !m.Enabled() {
		m.logger.Info("mail delivery disabled, skipping", "to", to, "subject", subject)
		return "", nil
	}
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Debug("email sent", "to", to, "id", sent.Id)
	return sent.Id, nil
}

// SendWelcome greets a newly registered user.
func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
			<h2 style="color: #333;">Welcome to Ideaji, %s!</h2>
			<p>Share your ideas, review others and earn points along the way.</p>
			<a href="%s" style="display: inline-block; background: #6366f1; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">
				Open Ideaji
			</a>
		</div>
	`, html.EscapeString(name), m.appURL)

	_, err := m.Send(ctx, to, "Welcome to Ideaji", body)
	return err
}
