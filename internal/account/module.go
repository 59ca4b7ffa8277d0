package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shandysiswandi/otpauth/internal/account/inbound"
	"github.com/shandysiswandi/otpauth/internal/account/outbound/db"
	"github.com/shandysiswandi/otpauth/internal/account/outbound/notify"
	"github.com/shandysiswandi/otpauth/internal/account/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/mail"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
	"github.com/shandysiswandi/otpauth/internal/pkg/storage"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Storage     storage.Presigner          `validate:"omitempty"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Hash        hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	OTP         otp.Generator              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

// New wires the account module, registers its routes and starts the
// challenge sweeper bound to ctx.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoNotify := notify.New(dep.Mail, dep.Messaging, dep.Instrument, notify.Config{
		AppName:       dep.Config.GetString("app.name"),
		SMSMaxRetries: uint64(max(dep.Config.GetInt("modules.account.sms_max_retries"), 0)),
	})

	uc := usecase.New(usecase.Dependency{
		RepoDB:      repoDB,
		RepoNotify:  repoNotify,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		Storage:     dep.Storage,
		Hash:        dep.Hash,
		UID:         dep.UID,
		OTP:         dep.OTP,
		Clock:       dep.Clock,
		JWT:         dep.JWT,
		Instrument:  dep.Instrument,
		Goroutine:   dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	uc.StartChallengeSweeper(ctx)

	return nil
}
