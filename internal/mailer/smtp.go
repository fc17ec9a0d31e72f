package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"rumal.store/web/internal/config"
)

// Store mail is machine-sent. These headers keep out-of-office replies and
// auto-forward loops away from the no-reply sender.
var automatedHeaders = map[string]string{
	"Auto-Submitted":           "auto-generated",
	"X-Auto-Response-Suppress": "All",
}

type SMTPMailer struct {
	cfg          config.SMTPConfig
	dialTimeout  time.Duration
	writeTimeout time.Duration

	messageIDDomain string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:             cfg,
		dialTimeout:     5 * time.Second,
		writeTimeout:    10 * time.Second,
		messageIDDomain: messageIDDomain(cfg),
	}
}

// messageIDDomain prefers the sender's domain so Message-IDs name the store,
// not whichever relay happens to carry the mail.
func messageIDDomain(cfg config.SMTPConfig) string {
	if _, domain, ok := strings.Cut(cfg.From, "@"); ok && domain != "" {
		return strings.Trim(domain, "> ")
	}
	if cfg.Host != "" {
		return cfg.Host
	}
	return "local"
}

// withPolicy applies the store's header policy. Caller headers win.
func withPolicy(e Email) Email {
	h := make(map[string]string, len(automatedHeaders)+len(e.Headers))
	for k, v := range automatedHeaders {
		h[k] = v
	}
	for k, v := range e.Headers {
		h[k] = v
	}
	e.Headers = h
	return e
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	e = withPolicy(e.withDefaults(m.cfg))
	raw, err := buildMIMEMessage(e, m.messageIDDomain)
	if err != nil {
		return err
	}

	c, conn, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer c.Quit()

	deadline := time.Now().Add(m.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if err := c.Mail(e.From); err != nil {
		return fmt.Errorf("mailer: smtp mail from: %w", err)
	}
	for _, rcpt := range e.AllRecipients() {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mailer: smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mailer: smtp data: %w", err)
	}
	if _, err := w.Write([]byte(raw)); err != nil {
		_ = w.Close()
		return fmt.Errorf("mailer: smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: smtp data close: %w", err)
	}
	return nil
}

// dial connects and negotiates TLS and AUTH according to TLSMode:
// "tls" is implicit TLS (port 465), "starttls" upgrades a plain session and
// anything else stays plain (local relays such as MailHog).
func (m *SMTPMailer) dial(ctx context.Context) (*smtp.Client, net.Conn, error) {
	dialer := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(m.cfg.Host, m.cfg.Port))
	if err != nil {
		return nil, nil, fmt.Errorf("mailer: smtp dial: %w", err)
	}

	mode := strings.ToLower(m.cfg.TLSMode)
	if mode == "tls" {
		tlsConn := tls.Client(conn, m.tlsConfig())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("mailer: smtp tls handshake: %w", err)
		}
		conn = tlsConn
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("mailer: smtp client: %w", err)
	}
	if err := m.negotiate(c, mode); err != nil {
		c.Close()
		return nil, nil, err
	}
	return c, conn, nil
}

func (m *SMTPMailer) negotiate(c *smtp.Client, mode string) error {
	if mode == "starttls" {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("mailer: smtp server does not offer STARTTLS")
		}
		if err := c.StartTLS(m.tlsConfig()); err != nil {
			return fmt.Errorf("mailer: smtp starttls: %w", err)
		}
	}
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return nil
	}
	if ok, _ := c.Extension("AUTH"); !ok {
		return nil
	}
	if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
		return fmt.Errorf("mailer: smtp auth: %w", err)
	}
	return nil
}

func (m *SMTPMailer) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         m.cfg.Host,
		InsecureSkipVerify: m.cfg.SkipVerifyTLS,
	}
}
