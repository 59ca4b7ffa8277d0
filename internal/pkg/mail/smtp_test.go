package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	raw  string
}

func newCapturing(t *testing.T, sendErr error) (*SMTP, *captured) {
	t.Helper()

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@otpauth.local"})
	require.NoError(t, err)

	c := &captured{}
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		c.addr, c.from, c.to, c.raw = addr, from, to, string(msg)
		return sendErr
	}
	return s, c
}

func TestSMTP_Send_Multipart(t *testing.T) {
	// Arrange
	s, c := newCapturing(t, nil)

	// Act
	err := s.Send(context.Background(), Message{
		To:       []string{"asha@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "Your code",
		TextBody: "code 123456",
		HTMLBody: "<b>123456</b>",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "localhost:1025", c.addr)
	assert.Equal(t, "noreply@otpauth.local", c.from)
	assert.Equal(t, []string{"asha@example.com", "audit@example.com"}, c.to)
	assert.Contains(t, c.raw, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, c.raw, "code 123456")
	assert.Contains(t, c.raw, "<b>123456</b>")
	assert.NotContains(t, c.raw, "audit@example.com")
}

func TestSMTP_Send_Errors(t *testing.T) {
	s, _ := newCapturing(t, errors.New("421 busy"))

	assert.ErrorIs(t, s.Send(context.Background(), Message{TextBody: "x"}), ErrNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@b.co"}}), ErrNoBody)
	assert.ErrorContains(t, s.Send(context.Background(), Message{To: []string{"a@b.co"}, TextBody: "x"}), "421 busy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"a@b.co"}, TextBody: "x"}), context.Canceled)
}

func TestCompose_PlainText(t *testing.T) {
	raw, err := compose("a@b.co", Message{To: []string{"c@d.co"}, Subject: "Hi", TextBody: "hello"}, time.Unix(0, 0))
	require.NoError(t, err)

	head, body, ok := strings.Cut(string(raw), "\r\n\r\n")
	require.True(t, ok)
	assert.Contains(t, head, "Content-Type: text/plain; charset=UTF-8")
	assert.Equal(t, "hello", body)
}

func TestNewSMTP_Validation(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "localhost"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}
