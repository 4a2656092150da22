// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"phoneadmin_backend/internal/config"
	"phoneadmin_backend/internal/logger"
)

// Provider abstracts the outgoing mail channel so tests can capture
// messages instead of dialing SMTP.
type Provider interface {
	Send(to, subject, htmlBody string) error
}

type smtpProvider struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPProvider builds a provider from the configured SMTP settings.
func NewSMTPProvider(cfg config.EmailConfig) Provider {
	if cfg.SMTPHost == "" {
		return &noopProvider{}
	}
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return &smtpProvider{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   from,
	}
}

func (p *smtpProvider) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// noopProvider is used when SMTP is not configured; it logs instead of
// sending so local environments work without a mail server.
type noopProvider struct{}

func (p *noopProvider) Send(to, subject, _ string) error {
	logger.Info("email sending skipped, smtp not configured", "to", to, "subject", subject)
	return nil
}
