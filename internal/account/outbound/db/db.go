package db

import (
	"context"
	"embed"
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the goose migrations of the accounts schema.
func Migrations() (fs.FS, error) {
	return fs.Sub(migrations, "migrations")
}

const (
	constraintEmail  = "accounts_email_key"
	constraintMobile = "accounts_mobile_key"
)

// conn is satisfied by *pgxpool.Pool and pgxmock.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	conn conn
	ins  instrument.Instrumentation
}

func NewDB(conn conn, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

// - pgx.ErrNoRows -> goerror.ErrNotFound
// - 23505 unique violation -> entity.ErrEmailTaken / entity.ErrMobileTaken / goerror.ErrConflict
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case constraintEmail:
			return entity.ErrEmailTaken
		case constraintMobile:
			return entity.ErrMobileTaken
		default:
			return goerror.ErrConflict
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
