// Package migration applies embedded goose SQL migrations to PostgreSQL.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Runner applies the migrations in fsys (flat directory of NNNNN_name.sql files).
type Runner struct {
	pool *pgxpool.Pool
	fsys fs.FS
}

func New(pool *pgxpool.Pool, fsys fs.FS) (*Runner, error) {
	if pool == nil {
		return nil, errors.New("migration: nil pool")
	}
	if fsys == nil {
		return nil, errors.New("migration: nil filesystem")
	}
	return &Runner{pool: pool, fsys: fsys}, nil
}

func (r *Runner) provider() (*goose.Provider, func() error, error) {
	db := stdlib.OpenDBFromPool(r.pool)

	p, err := goose.NewProvider(goose.DialectPostgres, db, r.fsys)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration: provider: %w", err)
	}

	return p, db.Close, nil
}

// Up applies every pending migration and returns the resulting version.
func (r *Runner) Up(ctx context.Context) (int64, error) {
	p, closeDB, err := r.provider()
	if err != nil {
		return 0, err
	}
	defer closeDB()

	results, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: up: %w", err)
	}
	for _, res := range results {
		slog.InfoContext(ctx, "migration applied",
			"version", res.Source.Version,
			"file", res.Source.Path,
			"took_ms", res.Duration.Milliseconds(),
		)
	}

	return p.GetDBVersion(ctx)
}

// Down rolls back the latest migration.
func (r *Runner) Down(ctx context.Context) error {
	p, closeDB, err := r.provider()
	if err != nil {
		return err
	}
	defer closeDB()

	if _, err := p.Down(ctx); err != nil {
		return fmt.Errorf("migration: down: %w", err)
	}
	return nil
}
