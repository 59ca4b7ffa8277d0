package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
	"github.com/shandysiswandi/otpauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

type mockRepoDB struct{ mock.Mock }

func (m *mockRepoDB) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	acc, _ := args.Get(0).(*entity.Account)
	return acc, args.Error(1)
}

func (m *mockRepoDB) FindByMobile(ctx context.Context, mobile string) (*entity.Account, error) {
	args := m.Called(ctx, mobile)
	acc, _ := args.Get(0).(*entity.Account)
	return acc, args.Error(1)
}

func (m *mockRepoDB) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*entity.Account)
	return acc, args.Error(1)
}

func (m *mockRepoDB) Insert(ctx context.Context, acc entity.Account) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *mockRepoDB) SetChallenge(ctx context.Context, id int64, c entity.OtpChallenge) error {
	return m.Called(ctx, id, c).Error(0)
}

func (m *mockRepoDB) ConsumeChallenge(ctx context.Context, id int64, hash string, now time.Time) (*entity.Account, error) {
	args := m.Called(ctx, id, hash, now)
	acc, _ := args.Get(0).(*entity.Account)
	return acc, args.Error(1)
}

func (m *mockRepoDB) ClearChallenge(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockRepoDB) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockRepoNotify struct{ mock.Mock }

func (m *mockRepoNotify) SendEmailOtp(ctx context.Context, email, code string, expiresAt time.Time) error {
	return m.Called(ctx, email, code, expiresAt).Error(0)
}

func (m *mockRepoNotify) SendSmsOtp(ctx context.Context, mobile, code string, expiresAt time.Time) error {
	return m.Called(ctx, mobile, code, expiresAt).Error(0)
}

type mockPresigner struct{ mock.Mock }

func (m *mockPresigner) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *mockPresigner) Close() error { return nil }

// fakeIdempotency runs fn unless err is set.
type fakeIdempotency struct {
	err error
}

func (f fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fixedCode string

func (f fixedCode) Generate() (string, error) { return string(f), nil }

func (f fixedCode) Digits() int { return len(f) }

type fixedNumber int64

func (f fixedNumber) Generate() int64 { return int64(f) }

type staticID string

func (s staticID) Generate() string { return string(s) }

var baseTime = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc      *Usecase
	db      *mockRepoDB
	notify  *mockRepoNotify
	clock   *clock.Fixed
	hash    hash.Hash
	jwt     jwt.JWT
	storage *mockPresigner
}

type fixtureOption func(*Dependency)

func withIdempotency(i idempotency.Idempotency) fixtureOption {
	return func(d *Dependency) { d.Idempotency = i }
}

func withRepoDB(r repoDB) fixtureOption {
	return func(d *Dependency) { d.RepoDB = r }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
storage:
  profile_bucket: profiles
  presign_expiry_minutes: 10
modules:
  account:
    otp_ttl_minutes: 5
    sweep_interval_seconds: 60
`))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := clock.NewFixed(baseTime)
	h := hash.NewBcrypt(4, "pepper")

	signer, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("s", 64)),
		Issuer: "otpauth",
		TTL:    time.Hour,
		Clock:  clk,
		UUID:   staticID("jti"),
	})
	require.NoError(t, err)

	f := &fixture{
		db:      &mockRepoDB{},
		notify:  &mockRepoNotify{},
		clock:   clk,
		hash:    h,
		jwt:     signer,
		storage: &mockPresigner{},
	}

	dep := Dependency{
		RepoDB:      f.db,
		RepoNotify:  f.notify,
		Idempotency: fakeIdempotency{},
		Validator:   v,
		Config:      cfg,
		Storage:     f.storage,
		Hash:        h,
		UID:         fixedNumber(1001),
		OTP:         fixedCode("482913"),
		Clock:       clk,
		JWT:         signer,
		Instrument:  instrument.NewNoop(),
		Goroutine:   goroutine.NewManager(4),
	}
	for _, opt := range opts {
		opt(&dep)
	}

	f.uc = New(dep)
	return f
}

// memDB is an in-memory repoDB with the same compare-and-clear semantics as
// the postgres adapter.
type memDB struct {
	mu       sync.Mutex
	accounts map[int64]*entity.Account
}

func newMemDB(accs ...entity.Account) *memDB {
	m := &memDB{accounts: make(map[int64]*entity.Account)}
	for i := range accs {
		a := accs[i]
		m.accounts[a.ID] = &a
	}
	return m
}

func (m *memDB) find(match func(*entity.Account) bool) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if match(a) {
			cp := *a
			if a.Challenge != nil {
				c := *a.Challenge
				cp.Challenge = &c
			}
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memDB) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	return m.find(func(a *entity.Account) bool { return a.Email == email })
}

func (m *memDB) FindByMobile(_ context.Context, mobile string) (*entity.Account, error) {
	return m.find(func(a *entity.Account) bool { return a.Mobile == mobile })
}

func (m *memDB) FindByID(_ context.Context, id int64) (*entity.Account, error) {
	return m.find(func(a *entity.Account) bool { return a.ID == id })
}

func (m *memDB) Insert(_ context.Context, acc entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Email == acc.Email {
			return entity.ErrEmailTaken
		}
		if a.Mobile == acc.Mobile {
			return entity.ErrMobileTaken
		}
	}
	m.accounts[acc.ID] = &acc
	return nil
}

func (m *memDB) SetChallenge(_ context.Context, id int64, c entity.OtpChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return goerror.ErrNotFound
	}
	a.Challenge = &c
	return nil
}

func (m *memDB) ConsumeChallenge(_ context.Context, id int64, hash string, now time.Time) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok || a.Challenge == nil || a.Challenge.Hash != hash || !now.Before(a.Challenge.ExpiresAt) {
		return nil, goerror.ErrNotFound
	}
	a.Challenge = nil
	cp := *a
	return &cp, nil
}

func (m *memDB) ClearChallenge(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[id]; ok && a.Challenge != nil && a.Challenge.Hash == hash {
		a.Challenge = nil
	}
	return nil
}

func (m *memDB) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, a := range m.accounts {
		if a.Challenge != nil && !now.Before(a.Challenge.ExpiresAt) {
			a.Challenge = nil
			n++
		}
	}
	return n, nil
}
