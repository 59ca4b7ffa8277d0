package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

var secret = []byte(strings.Repeat("k", 64))

func newSigner(t *testing.T, clk *clock.Fixed) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    secret,
		Issuer:    "otpauth",
		Audiences: []string{"web"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticID("jti-1"),
	})
	require.NoError(t, err)
	return s
}

func TestSymmetric_RoundTrip(t *testing.T) {
	// Arrange
	clk := clock.NewFixed(time.Now().Truncate(time.Second))
	s := newSigner(t, clk)

	// Act
	token, err := s.Generate(Subject{ID: 42, Email: "a@b.co", Role: "Customer"})
	require.NoError(t, err)
	claims, err := s.Verify(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, "Customer", claims.Role)
	assert.Equal(t, "jti-1", claims.ID)
	assert.True(t, clk.Now().Add(time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestSymmetric_Expired(t *testing.T) {
	clk := clock.NewFixed(time.Now().Truncate(time.Second))
	s := newSigner(t, clk)

	token, err := s.Generate(Subject{ID: 1})
	require.NoError(t, err)

	clk.Advance(time.Hour + time.Second)
	_, err = s.Verify(token)

	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_Rejects(t *testing.T) {
	clk := clock.NewFixed(time.Now().Truncate(time.Second))
	s := newSigner(t, clk)

	token, err := s.Generate(Subject{ID: 1})
	require.NoError(t, err)

	other, err := NewHS512(Config{Secret: []byte(strings.Repeat("x", 64)), Clock: clk, UUID: staticID("j")})
	require.NoError(t, err)

	hs256, err := libJWT.NewWithClaims(libJWT.SigningMethodHS256, libJWT.MapClaims{"sub": "1"}).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not.a.token",
		"tampered":     token[:len(token)-2] + "xx",
		"wrong method": hs256,
		"empty":        "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestAuthContext(t *testing.T) {
	assert.Nil(t, GetAuth(context.Background()))

	ctx := SetAuth(context.Background(), Claims{AccountID: 7, Role: "Admin"})
	got := GetAuth(ctx)

	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.AccountID)
}
