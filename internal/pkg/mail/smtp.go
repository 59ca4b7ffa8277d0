package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")
	ErrNoRecipients         = errors.New("mail: no recipients")
	ErrNoSender             = errors.New("mail: no sender")
	ErrNoBody               = errors.New("mail: empty body")
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender.
	From string
}

// SMTP sends through one relay using PLAIN auth when credentials are set.
type SMTP struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	s := &SMTP{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: cfg.From,
		send: smtp.SendMail,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return s, nil
}

// Send checks ctx before dialing; net/smtp itself is not cancellable.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.from
	}
	if from == "" {
		return ErrNoSender
	}

	rcpt := make([]string, 0, len(msg.To)+len(msg.Cc)+len(msg.Bcc))
	rcpt = append(rcpt, msg.To...)
	rcpt = append(rcpt, msg.Cc...)
	rcpt = append(rcpt, msg.Bcc...)
	if len(rcpt) == 0 {
		return ErrNoRecipients
	}

	raw, err := compose(from, msg, time.Now())
	if err != nil {
		return err
	}

	if err := s.send(s.addr, s.auth, from, rcpt, raw); err != nil {
		return fmt.Errorf("mail: smtp send: %w", err)
	}
	return nil
}

func (s *SMTP) Close() error { return nil }

// compose renders headers plus a text, HTML or multipart/alternative body.
// Bcc never appears in the headers.
func compose(from string, msg Message, now time.Time) ([]byte, error) {
	if msg.TextBody == "" && msg.HTMLBody == "" {
		return nil, ErrNoBody
	}

	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	header("From", from)
	header("To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		header("Cc", strings.Join(msg.Cc, ", "))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		mw := multipart.NewWriter(&buf)
		header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
		buf.WriteString("\r\n")

		for _, part := range []struct{ ctype, body string }{
			{"text/plain; charset=UTF-8", msg.TextBody},
			{"text/html; charset=UTF-8", msg.HTMLBody},
		} {
			w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
			if err != nil {
				return nil, err
			}
			if _, err := w.Write([]byte(part.body)); err != nil {
				return nil, err
			}
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}

	case msg.HTMLBody != "":
		header("Content-Type", "text/html; charset=UTF-8")
		buf.WriteString("\r\n" + msg.HTMLBody)

	default:
		header("Content-Type", "text/plain; charset=UTF-8")
		buf.WriteString("\r\n" + msg.TextBody)
	}

	return buf.Bytes(), nil
}
