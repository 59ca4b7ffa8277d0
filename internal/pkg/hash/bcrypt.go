package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when a non-positive cost is configured.
const DefaultBcryptCost = 10

// Bcrypt implements Hash with bcrypt.
//
// The pepper is appended to the plaintext on both sides and lives in
// configuration, never next to the digest.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. Costs outside bcrypt's range fall back to
// DefaultBcryptCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

func (h *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptySecret
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

func (h *Bcrypt) Verify(digest, plaintext string) bool {
	if digest == "" || plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext+h.pepper)) == nil
}
