package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned for tokens not signed with HS512.
	ErrInvalidSigningMethod = errors.New("jwt: invalid signing method")

	// ErrSigningKeyTooShort is returned for HS512 secrets under 64 bytes.
	ErrSigningKeyTooShort = errors.New("jwt: HS512 signing key must be at least 64 bytes")

	// ErrTokenExpired is returned when exp is in the past.
	ErrTokenExpired = errors.New("jwt: token expired")

	// ErrInvalidToken is returned for malformed or otherwise rejected tokens.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// DefaultTTL applies when Config.TTL is not positive.
const DefaultTTL = 60 * time.Minute

// JWT issues and verifies session tokens.
type JWT interface {
	Generate(sub Subject) (string, error)
	Verify(token string) (Claims, error)
}

// Subject is what a token asserts about its bearer.
type Subject struct {
	ID    int64
	Email string
	Role  string
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config builds a JWT implementation.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	// UUID generates the jti claim.
	UUID generator
}

// Claims is the decoded token payload.
type Claims struct {
	jwt.RegisteredClaims

	AccountID int64  `json:"account_id,string"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type authKey struct{}

// GetAuth returns the claims stored by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth returns a copy of ctx carrying clm.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
