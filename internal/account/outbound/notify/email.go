package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/shandysiswandi/otpauth/internal/pkg/mail"
)

var otpEmailHTML = template.Must(template.New("otp_email").Option("missingkey=zero").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <p>Use the code below to sign in to {{.AppName}}.</p>
  <p style="font-size: 28px; letter-spacing: 6px;"><strong>{{.Code}}</strong></p>
  <p>The code expires at {{.ExpiresAt}}. If you did not request it, you can ignore this email.</p>
</body>
</html>`))

type otpEmailData struct {
	AppName   string
	Code      string
	ExpiresAt string
}

func (n *Notifier) SendEmailOtp(ctx context.Context, email, code string, expiresAt time.Time) error {
	ctx, span := n.startSpan(ctx, "SendEmailOtp")
	defer span.End()

	data := otpEmailData{
		AppName:   n.cfg.AppName,
		Code:      code,
		ExpiresAt: expiresAt.UTC().Format(time.RFC1123),
	}

	var html bytes.Buffer
	if err := otpEmailHTML.Execute(&html, data); err != nil {
		failSpan(span, err)
		return err
	}

	if err := n.mail.Send(ctx, mail.Message{
		To:       []string{email},
		Subject:  fmt.Sprintf("Your %s verification code", n.cfg.AppName),
		TextBody: fmt.Sprintf("Your %s verification code is %s. It expires at %s.", data.AppName, data.Code, data.ExpiresAt),
		HTMLBody: html.String(),
	}); err != nil {
		failSpan(span, err)
		return err
	}

	return nil
}
