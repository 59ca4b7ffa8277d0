package notify

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/mail"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
)

const keyOfCorrelationID string = "cID"

type Config struct {
	// AppName appears in the email subject and body.
	AppName string
	// SMSMaxRetries is the number of publish retries after the first attempt.
	SMSMaxRetries uint64
	// SMSRetryBase seeds the Fibonacci backoff. Zero means 100ms.
	SMSRetryBase time.Duration
}

// Notifier delivers one-time passcodes by email (SMTP) and by SMS (a broker
// message consumed by the SMS gateway).
type Notifier struct {
	mail      mail.Mail
	publisher messaging.Publisher
	ins       instrument.Instrumentation
	cfg       Config
}

func New(m mail.Mail, p messaging.Publisher, ins instrument.Instrumentation, cfg Config) *Notifier {
	if cfg.AppName == "" {
		cfg.AppName = "OTP Auth"
	}
	if cfg.SMSRetryBase <= 0 {
		cfg.SMSRetryBase = 100 * time.Millisecond
	}

	return &Notifier{mail: m, publisher: p, ins: ins, cfg: cfg}
}

func (n *Notifier) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return n.ins.Tracer("account.outbound.notify").Start(ctx, name)
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
