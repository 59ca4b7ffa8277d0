package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

const msgIdentityRequired = "Either email or mobile number must be provided."

type emailCheck struct {
	Email string `validate:"email"`
}

// resolveIdentity picks the login channel. A valid email wins; otherwise the
// mobile number is used and must be well formed.
func (s *Usecase) resolveIdentity(email, mobile string) (entity.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	mobile = strings.TrimSpace(mobile)

	if email != "" {
		err := s.validator.Validate(emailCheck{Email: email})
		if err == nil {
			return entity.Identity{Channel: entity.ChannelEmail, Value: email}, nil
		}
		if mobile == "" {
			return entity.Identity{}, goerror.NewInvalidInput(err)
		}
	}

	if mobile != "" {
		if !validator.IsMobile(mobile) {
			return entity.Identity{}, goerror.NewInvalidInput(nil, "mobile", "mobile must be a mobile number of 6 to 15 digits")
		}
		return entity.Identity{Channel: entity.ChannelMobile, Value: mobile}, nil
	}

	return entity.Identity{}, goerror.NewInvalidInput(nil, "email", msgIdentityRequired, "mobile", msgIdentityRequired)
}

func (s *Usecase) findByIdentity(ctx context.Context, id entity.Identity) (*entity.Account, error) {
	var (
		acc *entity.Account
		err error
	)
	if id.Channel == entity.ChannelEmail {
		acc, err = s.repoDB.FindByEmail(ctx, id.Value)
	} else {
		acc, err = s.repoDB.FindByMobile(ctx, id.Value)
	}

	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "channel", id.Channel.String())
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find account", "channel", id.Channel.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return acc, nil
}
