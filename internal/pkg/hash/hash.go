package hash

import (
	"errors"
	"fmt"
)

// ErrEmptySecret is returned when asked to hash an empty string.
var ErrEmptySecret = errors.New("hash: empty secret")

// Hash produces and checks one-way digests.
type Hash interface {
	// Hash returns a salted digest of plaintext.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. Malformed digests never match.
	Verify(digest, plaintext string) bool
}

// New builds the hasher selected by algorithm ("bcrypt" or "argon2id").
func New(algorithm string, cost int, pepper string) (Hash, error) {
	switch algorithm {
	case "", "bcrypt":
		return NewBcrypt(cost, pepper), nil
	case "argon2id":
		return NewArgon2id(pepper), nil
	default:
		return nil, fmt.Errorf("hash: unsupported algorithm %q", algorithm)
	}
}
