package mailer

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/config"
)

type relayCapture struct {
	mu   sync.Mutex
	from string
	rcpt []string
	data string
}

func (r *relayCapture) snapshot() (string, []string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.from, append([]string(nil), r.rcpt...), r.data
}

// startRelay accepts one plain SMTP session and records the envelope and
// message.
func startRelay(t *testing.T) (host, port string, got *relayCapture) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	got = &relayCapture{}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 relay.test ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			verb := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
				_ = tp.PrintfLine("250 relay.test")
			case strings.HasPrefix(verb, "MAIL FROM:"):
				got.mu.Lock()
				got.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
				got.mu.Unlock()
				_ = tp.PrintfLine("250 ok")
			case strings.HasPrefix(verb, "RCPT TO:"):
				got.mu.Lock()
				got.rcpt = append(got.rcpt, strings.Trim(line[len("RCPT TO:"):], "<> "))
				got.mu.Unlock()
				_ = tp.PrintfLine("250 ok")
			case verb == "DATA":
				_ = tp.PrintfLine("354 end with .")
				b, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				got.mu.Lock()
				got.data = string(b)
				got.mu.Unlock()
				_ = tp.PrintfLine("250 queued")
			case verb == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("250 ok")
			}
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port, got
}

func TestSMTPMailer_SendsShareMail(t *testing.T) {
	host, port, relay := startRelay(t)
	m := NewSMTPMailer(config.SMTPConfig{
		Host:     host,
		Port:     port,
		From:     "no-reply@rumal.store",
		FromName: "Rumal Store",
	})

	err := m.Send(context.Background(), Email{
		To:       []string{"friend@example.com"},
		Subject:  "Bob shared a wishlist with you",
		TextBody: "https://rumal.store/wishlist/shared/tok1",
	})
	require.NoError(t, err)

	from, rcpt, data := relay.snapshot()
	assert.Equal(t, "no-reply@rumal.store", from)
	assert.Equal(t, []string{"friend@example.com"}, rcpt)
	assert.Contains(t, data, "From: Rumal Store <no-reply@rumal.store>")
	assert.Contains(t, data, "Auto-Submitted: auto-generated")
	assert.Contains(t, data, "X-Auto-Response-Suppress: All")
	assert.Regexp(t, `Message-ID: <[0-9a-f]{24}@rumal\.store>`, data)
	assert.Contains(t, data, "https://rumal.store/wishlist/shared/tok1")
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	m := NewSMTPMailer(config.SMTPConfig{Host: host, Port: port, From: "no-reply@rumal.store"})
	err = m.Send(context.Background(), Email{To: []string{"a@b"}, Subject: "s", TextBody: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp dial")
}

func TestMessageIDDomain(t *testing.T) {
	assert.Equal(t, "rumal.store", messageIDDomain(config.SMTPConfig{From: "no-reply@rumal.store", Host: "smtp.relay.net"}))
	assert.Equal(t, "smtp.relay.net", messageIDDomain(config.SMTPConfig{Host: "smtp.relay.net"}))
	assert.Equal(t, "local", messageIDDomain(config.SMTPConfig{}))
}

func TestWithPolicy_CallerHeadersWin(t *testing.T) {
	e := withPolicy(Email{Headers: map[string]string{"Auto-Submitted": "auto-replied", "X-Kind": "wishlist-share"}})
	assert.Equal(t, "auto-replied", e.Headers["Auto-Submitted"])
	assert.Equal(t, "All", e.Headers["X-Auto-Response-Suppress"])
	assert.Equal(t, "wishlist-share", e.Headers["X-Kind"])
	assert.Equal(t, "auto-generated", automatedHeaders["Auto-Submitted"], "policy map is not mutated")
}
