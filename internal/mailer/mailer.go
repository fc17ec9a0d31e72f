// Package mailer sends transactional mail (wishlist share links).
package mailer

import (
	"context"
	"log/slog"
	"strings"

	"rumal.store/web/internal/config"
)

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

// withDefaults fills the sender from configuration when the caller left it out.
func (e Email) withDefaults(cfg config.SMTPConfig) Email {
	if e.From == "" {
		e.From = cfg.From
	}
	if e.FromName == "" {
		e.FromName = cfg.FromName
	}
	return e
}

// New returns an SMTP mailer, or a logging mailer when no SMTP host is
// configured (local development).
func New(cfg config.SMTPConfig, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.Host) == "" {
		return &LogMailer{cfg: cfg, logger: logger}
	}
	return NewSMTPMailer(cfg)
}

// LogMailer writes mail to the log instead of sending it.
type LogMailer struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, e Email) error {
	e = e.withDefaults(m.cfg)
	if _, err := buildMIMEMessage(e, "localhost"); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "mail_not_sent_no_smtp",
		slog.String("to", strings.Join(e.To, ",")),
		slog.String("subject", e.Subject),
	)
	return nil
}
