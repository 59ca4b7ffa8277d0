package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
)

type AddressInput struct {
	Street  string `validate:"required,max=200"`
	City    string `validate:"required,max=100"`
	State   string `validate:"required,max=100"`
	PinCode string `validate:"required,max=20"`
}

type RegisterInput struct {
	IdempotencyKey string `validate:"omitempty,max=128"`

	FirstName string         `validate:"required,max=100"`
	LastName  string         `validate:"required,max=100"`
	Email     string         `validate:"required,email"`
	Mobile    string         `validate:"required,mobile"`
	Profile   string         `validate:"omitempty,max=512"`
	Role      string         `validate:"omitempty,oneof=Admin Customer Vendor"`
	Status    string         `validate:"omitempty,oneof=Active Suspended"`
	Addresses []AddressInput `validate:"omitempty,dive"`
}

type RegisterOutput struct {
	Message string
	Account entity.PublicAccount
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Profile = strings.TrimSpace(in.Profile)
	in.Role = strings.TrimSpace(in.Role)
	in.Status = strings.TrimSpace(in.Status)
	for i := range in.Addresses {
		a := &in.Addresses[i]
		a.Street = strings.TrimSpace(a.Street)
		a.City = strings.TrimSpace(a.City)
		a.State = strings.TrimSpace(a.State)
		a.PinCode = strings.TrimSpace(a.PinCode)
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.IdempotencyKey == "" {
		return s.register(ctx, in)
	}

	var out *RegisterOutput
	err := s.idemp.Exec(ctx, "account:register:"+in.IdempotencyKey, func(ctx context.Context) error {
		var err error
		out, err = s.register(ctx, in)
		return err
	})

	var gerr *goerror.Error
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, idempotency.ErrCompleted):
		return nil, goerror.NewBusiness("Request already processed", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrInProgress):
		return nil, goerror.NewBusiness("Request is being processed", goerror.CodeConflict)
	case errors.As(err, &gerr):
		return nil, err
	default:
		slog.ErrorContext(ctx, "failed to track idempotency key", "error", err)
		return nil, goerror.NewServer(err)
	}
}

func (s *Usecase) register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	emailTaken, mobileTaken, err := s.lookupTaken(ctx, in.Email, in.Mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check account uniqueness", "error", err)
		return nil, goerror.NewServer(err)
	}
	if emailTaken {
		return nil, goerror.NewBusiness("Email already exists", goerror.CodeConflict)
	}
	if mobileTaken {
		return nil, goerror.NewBusiness("Mobile number already exists", goerror.CodeConflict)
	}

	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "role", err.Error())
	}
	status, err := entity.ParseStatus(in.Status)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "status", err.Error())
	}

	now := s.clock.Now()
	acc := entity.Account{
		ID:        s.uid.Generate(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Mobile:    in.Mobile,
		Profile:   in.Profile,
		Role:      role,
		Status:    status,
		Addresses: lo.Map(in.Addresses, func(a AddressInput, _ int) entity.Address {
			return entity.Address{Street: a.Street, City: a.City, State: a.State, PinCode: a.PinCode}
		}),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repoDB.Insert(ctx, acc)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrEmailTaken):
		return nil, goerror.NewBusiness("Email already exists", goerror.CodeConflict)
	case errors.Is(err, entity.ErrMobileTaken):
		return nil, goerror.NewBusiness("Mobile number already exists", goerror.CodeConflict)
	default:
		slog.ErrorContext(ctx, "failed to repo insert account", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		Message: "Registration successful",
		Account: s.publicAccount(ctx, &acc),
	}, nil
}

// lookupTaken checks email and mobile concurrently and waits for both.
func (s *Usecase) lookupTaken(ctx context.Context, email, mobile string) (emailTaken, mobileTaken bool, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.repoDB.FindByEmail(gctx, email)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find by email: %w", err)
		}
		emailTaken = true
		return nil
	})

	g.Go(func() error {
		_, err := s.repoDB.FindByMobile(gctx, mobile)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find by mobile: %w", err)
		}
		mobileTaken = true
		return nil
	})

	err = g.Wait()
	return emailTaken, mobileTaken, err
}
