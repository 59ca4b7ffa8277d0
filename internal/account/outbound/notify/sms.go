package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/shared/event"
)

func (n *Notifier) SendSmsOtp(ctx context.Context, mobile, code string, expiresAt time.Time) error {
	ctx, span := n.startSpan(ctx, "SendSmsOtp")
	defer span.End()

	body, err := json.Marshal(event.OtpSmsMessage{
		Mobile:    mobile,
		Code:      code,
		ExpiresAt: expiresAt.UTC(),
	})
	if err != nil {
		failSpan(span, err)
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	msg := messaging.Message{
		Body:    body,
		Key:     []byte(mobile),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}

	b := retry.NewFibonacci(n.cfg.SMSRetryBase)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(n.cfg.SMSMaxRetries, b)

	attempt := 0
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		_, err := n.publisher.Publish(ctx, event.OtpSmsDestination, msg)
		if err == nil {
			return nil
		}
		if errors.Is(err, messaging.ErrClosed) || errors.Is(err, messaging.ErrDestinationRequired) {
			return err
		}

		slog.WarnContext(ctx, "failed to publish otp sms, will retry", "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		failSpan(span, err)
		return err
	}

	return nil
}
