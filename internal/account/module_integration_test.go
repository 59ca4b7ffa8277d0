//go:build integration

package account

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/shandysiswandi/otpauth/internal/account/outbound/db"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/mail"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/migration"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
	"github.com/shandysiswandi/otpauth/internal/shared/event"
)

const moduleConfig = `
app:
  name: "OTP Auth"
modules:
  account:
    enabled: true
    otp_ttl_minutes: 5
    sms_max_retries: 0
`

var emailCode = regexp.MustCompile(`verification code is (\d+)`)

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

type accountData struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Mobile  string  `json:"mobile"`
	Profile *string `json:"profile"`
	Role    string  `json:"role"`
}

type captureMail struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureMail) Close() error { return nil }

func (c *captureMail) lastCode(t *testing.T, to string) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.sent) - 1; i >= 0; i-- {
		if len(c.sent[i].To) == 1 && c.sent[i].To[0] == to {
			m := emailCode.FindStringSubmatch(c.sent[i].TextBody)
			require.Len(t, m, 2)
			return m[1]
		}
	}
	t.Fatalf("no email sent to %s", to)
	return ""
}

type capturePublisher struct {
	mu   sync.Mutex
	msgs []event.OtpSmsMessage
}

func (c *capturePublisher) Publish(_ context.Context, destination string, msg messaging.Message) (messaging.Receipt, error) {
	var m event.OtpSmsMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return messaging.Receipt{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)

	return messaging.Receipt{Destination: destination, AcceptedAt: time.Now()}, nil
}

func (c *capturePublisher) Close() error { return nil }

func (c *capturePublisher) lastCode(t *testing.T, mobile string) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Mobile == mobile {
			return c.msgs[i].Code
		}
	}
	t.Fatalf("no sms published to %s", mobile)
	return ""
}

type harness struct {
	server *httptest.Server
	mail   *captureMail
	sms    *capturePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pg, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("otpauth"),
		tcpostgres.WithUsername("otpauth"),
		tcpostgres.WithPassword("otpauth"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	fsys, err := db.Migrations()
	require.NoError(t, err)
	runner, err := migration.New(pool, fsys)
	require.NoError(t, err)
	_, err = runner.Up(ctx)
	require.NoError(t, err)

	rc, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Terminate(context.Background()) })

	uri, err := rc.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg, err := config.NewViperFromBytes("yaml", []byte(moduleConfig))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	snow, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	clk := clock.New()
	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "otpauth",
		Audiences: []string{"otpauth-web"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      uid.NewUUID(),
	})
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
	})

	h := &harness{mail: &captureMail{}, sms: &capturePublisher{}}
	gm := goroutine.NewManager(10)

	require.NoError(t, New(ctx, Dependency{
		DBConn:      pool,
		Goroutine:   gm,
		Router:      r,
		Idempotency: idempotency.New(rdb, "test:"),
		Mail:        h.mail,
		Messaging:   h.sms,
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
		UID:         snow,
		Hash:        hash.NewBcrypt(4, ""),
		Clock:       clk,
		OTP:         otp.NewNumeric(6),
		Validator:   v,
		JWT:         signer,
	}))

	h.server = httptest.NewServer(r)
	t.Cleanup(h.server.Close)

	return h
}

func (h *harness) doJSON(t *testing.T, method, path string, payload any, headers map[string]string) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		require.NoError(t, json.NewEncoder(buf).Encode(payload))
		body = buf
	}

	req, err := http.NewRequest(method, h.server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func decodeSuccess(t *testing.T, body []byte, out any) successEnvelope {
	t.Helper()

	var env successEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestModule_OtpLogin(t *testing.T) {
	h := newHarness(t)

	register := map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"mobile":     json.Number("919876543210"),
		"addresses":  []map[string]string{{"street": "1 Main", "city": "Pune", "state": "MH", "pin_code": "411001"}},
	}

	status, body := h.doJSON(t, http.MethodPost, "/api/v1/account/register", register,
		map[string]string{"Idempotency-Key": "reg-1"})
	require.Equal(t, http.StatusOK, status, string(body))

	var registered struct {
		Account accountData `json:"account"`
	}
	env := decodeSuccess(t, body, &registered)
	assert.Equal(t, "Registration successful", env.Message)
	assert.Equal(t, "Customer", registered.Account.Role)
	assert.Nil(t, registered.Account.Profile)
	assert.NotContains(t, string(body), "otp")

	t.Run("replayed idempotency key", func(t *testing.T) {
		status, body := h.doJSON(t, http.MethodPost, "/api/v1/account/register", register,
			map[string]string{"Idempotency-Key": "reg-1"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Request already processed", decodeError(t, body).Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := map[string]any{"first_name": "A", "last_name": "B", "email": "ada@example.com", "mobile": json.Number("919800000000")}
		status, body := h.doJSON(t, http.MethodPost, "/api/v1/account/register", dup, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Email already exists", decodeError(t, body).Message)
	})

	t.Run("email login", func(t *testing.T) {
		status, body := h.doJSON(t, http.MethodPost, "/api/v1/account/otp/request",
			map[string]any{"email": "ada@example.com"}, nil)
		require.Equal(t, http.StatusOK, status, string(body))
		assert.Equal(t, "OTP sent successfully", decodeSuccess(t, body, nil).Message)

		code := h.mail.lastCode(t, "ada@example.com")

		status, body = h.doJSON(t, http.MethodPost, "/api/v1/account/otp/verify",
			map[string]any{"email": "ada@example.com", "otp": wrongCode(code)}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid or expired OTP", decodeError(t, body).Message)

		status, body = h.doJSON(t, http.MethodPost, "/api/v1/account/otp/verify",
			map[string]any{"email": "ada@example.com", "otp": code}, nil)
		require.Equal(t, http.StatusOK, status, string(body))

		var verified struct {
			Token   string      `json:"token"`
			Account accountData `json:"account"`
		}
		decodeSuccess(t, body, &verified)
		require.NotEmpty(t, verified.Token)
		assert.Equal(t, registered.Account.ID, verified.Account.ID)

		status, _ = h.doJSON(t, http.MethodPost, "/api/v1/account/otp/verify",
			map[string]any{"email": "ada@example.com", "otp": code}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, body = h.doJSON(t, http.MethodGet, "/api/v1/account/session", nil,
			map[string]string{"Authorization": "Bearer " + verified.Token})
		require.Equal(t, http.StatusOK, status, string(body))

		var session struct {
			Account accountData `json:"account"`
			Role    string      `json:"role"`
		}
		assert.Equal(t, "Session is active", decodeSuccess(t, body, &session).Message)
		assert.Equal(t, "ada@example.com", session.Account.Email)
		assert.Equal(t, "Customer", session.Role)
	})

	t.Run("mobile login", func(t *testing.T) {
		status, body := h.doJSON(t, http.MethodPost, "/api/v1/account/otp/request",
			map[string]any{"mobile": json.Number("919876543210")}, nil)
		require.Equal(t, http.StatusOK, status, string(body))

		code := h.sms.lastCode(t, "919876543210")

		status, body = h.doJSON(t, http.MethodPost, "/api/v1/account/otp/verify",
			map[string]any{"mobile": "919876543210", "otp": code}, nil)
		require.Equal(t, http.StatusOK, status, string(body))
	})

	t.Run("unknown identity", func(t *testing.T) {
		status, body := h.doJSON(t, http.MethodPost, "/api/v1/account/otp/request",
			map[string]any{"email": "nobody@example.com"}, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "User not found", decodeError(t, body).Message)
	})

	t.Run("session without token", func(t *testing.T) {
		status, _ := h.doJSON(t, http.MethodGet, "/api/v1/account/session", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func wrongCode(code string) string {
	if code[0] == '9' {
		return "0" + code[1:]
	}
	return string(code[0]+1) + code[1:]
}
