package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
	"github.com/shandysiswandi/otpauth/internal/pkg/storage"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

const (
	defaultOtpTTL           = 5 * time.Minute
	defaultProfileURLExpiry = 15 * time.Minute
)

type repoDB interface {
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByMobile(ctx context.Context, mobile string) (*entity.Account, error)
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	Insert(ctx context.Context, acc entity.Account) error

	SetChallenge(ctx context.Context, id int64, c entity.OtpChallenge) error
	ConsumeChallenge(ctx context.Context, id int64, hash string, now time.Time) (*entity.Account, error)
	ClearChallenge(ctx context.Context, id int64, hash string) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type repoNotify interface {
	SendEmailOtp(ctx context.Context, email, code string, expiresAt time.Time) error
	SendSmsOtp(ctx context.Context, mobile, code string, expiresAt time.Time) error
}

type Usecase struct {
	repoDB     repoDB
	repoNotify repoNotify
	idemp      idempotency.Idempotency
	validator  validator.Validator
	cfg        config.Config
	storage    storage.Presigner
	hash       hash.Hash
	uid        uid.NumberID
	otp        otp.Generator
	clock      clock.Clocker
	jwt        jwt.JWT
	ins        instrument.Instrumentation
	goroutine  *goroutine.Manager
}

type Dependency struct {
	RepoDB      repoDB
	RepoNotify  repoNotify
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	Storage     storage.Presigner
	Hash        hash.Hash
	UID         uid.NumberID
	OTP         otp.Generator
	Clock       clock.Clocker
	JWT         jwt.JWT
	Instrument  instrument.Instrumentation
	Goroutine   *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:     dep.RepoDB,
		repoNotify: dep.RepoNotify,
		idemp:      dep.Idempotency,
		validator:  dep.Validator,
		cfg:        dep.Config,
		storage:    dep.Storage,
		hash:       dep.Hash,
		uid:        dep.UID,
		otp:        dep.OTP,
		clock:      dep.Clock,
		jwt:        dep.JWT,
		ins:        dep.Instrument,
		goroutine:  dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

// publicAccount redacts acc and turns an object-key profile into a presigned
// download URL. On signing failure the stored reference is returned.
func (s *Usecase) publicAccount(ctx context.Context, acc *entity.Account) entity.PublicAccount {
	profile := acc.Profile
	if profile == "" || s.storage == nil || isAbsoluteURL(profile) {
		return acc.Public(profile)
	}

	bucket := s.cfg.GetString("storage.profile_bucket")
	expiry := s.cfg.GetMinute("storage.presign_expiry_minutes")
	if expiry <= 0 {
		expiry = defaultProfileURLExpiry
	}

	signed, err := s.storage.PresignGet(ctx, bucket, profile, expiry)
	if err != nil {
		slog.WarnContext(ctx, "failed to presign profile url", "account_id", acc.ID, "error", err)
		return acc.Public(profile)
	}

	return acc.Public(signed)
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
