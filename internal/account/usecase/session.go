package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
)

type SessionOutput struct {
	Account   entity.PublicAccount
	Role      entity.Role
	ExpiresAt time.Time
}

// Session returns the account behind the verified token in ctx.
func (s *Usecase) Session(ctx context.Context) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "Session")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	acc, err := s.repoDB.FindByID(ctx, clm.AccountID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "session account not found", "account_id", clm.AccountID)
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account by id", "account_id", clm.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &SessionOutput{
		Account: s.publicAccount(ctx, acc),
		Role:    entity.Role(clm.Role),
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}
