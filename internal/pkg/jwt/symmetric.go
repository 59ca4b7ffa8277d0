package jwt

import (
	"errors"
	"strconv"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies with a shared HMAC secret.
type Symmetric struct {
	cfg Config
}

// NewHS512 validates cfg and returns an HS512 implementation.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	return &Symmetric{cfg: cfg}, nil
}

func (s *Symmetric) Generate(sub Subject) (string, error) {
	now := s.cfg.Clock.Now()

	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(sub.ID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		AccountID: sub.ID,
		Email:     sub.Email,
		Role:      sub.Role,
	}

	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(s.cfg.Secret)
}

func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.cfg.Clock.Now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, libJWT.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(s.cfg.Audiences...))
	}

	parsed, err := libJWT.ParseWithClaims(token, &claims, func(t *libJWT.Token) (any, error) {
		if t.Method != libJWT.SigningMethodHS512 {
			return nil, ErrInvalidSigningMethod
		}
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Subject != strconv.FormatInt(claims.AccountID, 10) {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
