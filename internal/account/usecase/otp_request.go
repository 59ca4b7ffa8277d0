package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

type RequestOtpInput struct {
	Email  string
	Mobile string
}

type RequestOtpOutput struct {
	Message   string
	ExpiresAt time.Time
}

func (s *Usecase) RequestOtp(ctx context.Context, in RequestOtpInput) (*RequestOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOtp")
	defer span.End()

	id, err := s.resolveIdentity(in.Email, in.Mobile)
	if err != nil {
		return nil, err
	}

	acc, err := s.findByIdentity(ctx, id)
	if err != nil {
		return nil, err
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.account.otp_ttl_minutes")
	if ttl <= 0 {
		ttl = defaultOtpTTL
	}
	expiresAt := s.clock.Now().Add(ttl)

	digest, err := s.hash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.SetChallenge(ctx, acc.ID, entity.OtpChallenge{Hash: digest, ExpiresAt: expiresAt})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account vanished before challenge was stored", "account_id", acc.ID)
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo set challenge", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if id.Channel == entity.ChannelEmail {
		err = s.repoNotify.SendEmailOtp(ctx, acc.Email, code, expiresAt)
	} else {
		err = s.repoNotify.SendSmsOtp(ctx, acc.Mobile, code, expiresAt)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to send otp", "account_id", acc.ID, "channel", id.Channel.String(), "error", err)

		if cerr := s.repoDB.ClearChallenge(context.WithoutCancel(ctx), acc.ID, digest); cerr != nil {
			slog.ErrorContext(ctx, "failed to repo clear undelivered challenge", "account_id", acc.ID, "error", cerr)
		}

		return nil, goerror.NewOperationFailed(err, "Failed to send OTP, please try again")
	}

	return &RequestOtpOutput{
		Message:   "OTP sent successfully",
		ExpiresAt: expiresAt,
	}, nil
}
