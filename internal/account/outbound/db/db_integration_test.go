//go:build integration

package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/atomic"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/migration"
)

func newPostgres(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("otpauth"),
		tcpostgres.WithUsername("otpauth"),
		tcpostgres.WithPassword("otpauth"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	fsys, err := Migrations()
	require.NoError(t, err)

	runner, err := migration.New(pool, fsys)
	require.NoError(t, err)

	version, err := runner.Up(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), version)

	return NewDB(pool, instrument.NewNoop())
}

func TestDB_Integration(t *testing.T) {
	s := newPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	acc := entity.Account{
		ID:        101,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Mobile:    "919876543210",
		Role:      entity.RoleCustomer,
		Status:    entity.StatusActive,
		Addresses: []entity.Address{{Street: "1 Main", City: "Pune", State: "MH", PinCode: "411001"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Insert(ctx, acc))

	t.Run("unique constraints map to taken errors", func(t *testing.T) {
		dup := acc
		dup.ID = 102
		dup.Mobile = "919876543211"
		assert.ErrorIs(t, s.Insert(ctx, dup), entity.ErrEmailTaken)

		dup.Email = "other@example.com"
		dup.Mobile = acc.Mobile
		assert.ErrorIs(t, s.Insert(ctx, dup), entity.ErrMobileTaken)
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := s.FindByMobile(ctx, acc.Mobile)
		require.NoError(t, err)
		assert.Equal(t, acc.Addresses, got.Addresses)
		assert.Nil(t, got.Challenge)
	})

	t.Run("concurrent consume has one winner", func(t *testing.T) {
		require.NoError(t, s.SetChallenge(ctx, acc.ID, entity.OtpChallenge{Hash: "h1", ExpiresAt: now.Add(time.Minute)}))

		wins := atomic.NewInt32(0)
		misses := atomic.NewInt32(0)

		var wg sync.WaitGroup
		for range 8 {
			wg.Go(func() {
				_, err := s.ConsumeChallenge(ctx, acc.ID, "h1", now)
				switch {
				case err == nil:
					wins.Inc()
				case assert.ErrorIs(t, err, goerror.ErrNotFound):
					misses.Inc()
				}
			})
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(7), misses.Load())
	})

	t.Run("clear leaves a newer challenge alone", func(t *testing.T) {
		require.NoError(t, s.SetChallenge(ctx, acc.ID, entity.OtpChallenge{Hash: "new", ExpiresAt: now.Add(time.Minute)}))
		require.NoError(t, s.ClearChallenge(ctx, acc.ID, "old"))

		got, err := s.FindByID(ctx, acc.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Challenge)
		assert.Equal(t, "new", got.Challenge.Hash)
	})

	t.Run("sweep clears expired", func(t *testing.T) {
		n, err := s.SweepExpired(ctx, now.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = s.ConsumeChallenge(ctx, acc.ID, "new", now)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})
}
