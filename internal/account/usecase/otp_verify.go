package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
)

type VerifyOtpInput struct {
	Email  string
	Mobile string
	Code   string
}

type VerifyOtpOutput struct {
	Token   string
	Account entity.PublicAccount
}

func errInvalidOtp() error {
	return goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)
}

func (s *Usecase) VerifyOtpAndLogin(ctx context.Context, in VerifyOtpInput) (*VerifyOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOtpAndLogin")
	defer span.End()

	id, err := s.resolveIdentity(in.Email, in.Mobile)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, goerror.NewInvalidInput(nil, "code", "code is a required field")
	}
	if !otp.IsNumeric(code) {
		return nil, goerror.NewInvalidInput(nil, "code", "code must contain digits only")
	}

	acc, err := s.findByIdentity(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ch := acc.Challenge

	switch {
	case ch == nil:
		slog.WarnContext(ctx, "otp rejected", "account_id", acc.ID, "reason", "no_pending_challenge")
		return nil, errInvalidOtp()
	case !ch.Valid(now):
		slog.WarnContext(ctx, "otp rejected", "account_id", acc.ID, "reason", "expired")
		return nil, errInvalidOtp()
	case !s.hash.Verify(ch.Hash, code):
		slog.WarnContext(ctx, "otp rejected", "account_id", acc.ID, "reason", "mismatch")
		return nil, errInvalidOtp()
	}

	consumed, err := s.repoDB.ConsumeChallenge(ctx, acc.ID, ch.Hash, now)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp rejected", "account_id", acc.ID, "reason", "already_consumed")
		return nil, errInvalidOtp()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume challenge", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	claims := entity.SessionClaims{SubjectID: consumed.ID, Email: consumed.Email, Role: consumed.Role}
	token, err := s.jwt.Generate(jwt.Subject{
		ID:    claims.SubjectID,
		Email: claims.Email,
		Role:  claims.Role.String(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOtpOutput{
		Token:   token,
		Account: s.publicAccount(ctx, consumed),
	}, nil
}
