package mailer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rumal.store/web/internal/config"
)

func TestBuildMIMEMessage_Alternative(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		From:     "no-reply@rumal.store",
		FromName: "Rumal Store",
		To:       []string{"a@example.com"},
		Subject:  "Ayşe shared a wishlist",
		TextBody: "hello",
		HTMLBody: "<p>hello</p>",
		Headers:  map[string]string{"X-Kind": "wishlist-share"},
	}, "rumal.store")
	require.NoError(t, err)

	assert.Contains(t, raw, "From: Rumal Store <no-reply@rumal.store>\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "X-Kind: wishlist-share\r\n")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Less(t, strings.Index(raw, "text/plain"), strings.Index(raw, "text/html"))
}

func TestBuildMIMEMessage_Validation(t *testing.T) {
	_, err := buildMIMEMessage(Email{From: "x@y", Subject: "s", TextBody: "b"}, "d")
	assert.ErrorIs(t, err, ErrNoRecipient)
	_, err = buildMIMEMessage(Email{To: []string{"a@b"}, Subject: "s", TextBody: "b"}, "d")
	assert.ErrorIs(t, err, ErrNoSender)
	_, err = buildMIMEMessage(Email{To: []string{"a@b"}, From: "x@y", TextBody: "b"}, "d")
	assert.ErrorIs(t, err, ErrNoSubject)
	_, err = buildMIMEMessage(Email{To: []string{"a@b"}, From: "x@y", Subject: "s"}, "d")
	assert.ErrorIs(t, err, ErrNoBody)
}

func TestNew_LogMailerWithoutHost(t *testing.T) {
	m := New(config.SMTPConfig{From: "no-reply@rumal.store"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, ok := m.(*LogMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Email{To: []string{"a@b"}, Subject: "s", TextBody: "b"}))

	_, ok = New(config.SMTPConfig{Host: "smtp.local", Port: "25"}, nil).(*SMTPMailer)
	assert.True(t, ok)
}
