package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id implements Hash with the PHC-encoded Argon2id format.
//
// Derivations are memory hungry, so at most slots of them run at once.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	slots       chan struct{}
	pepper      string
}

// NewArgon2id returns an Argon2id hasher (32 MiB, 3 passes, 2 lanes).
func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		memory:      32 * 1024,
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		slots:       make(chan struct{}, 2),
		pepper:      pepper,
	}
}

func (a *Argon2id) derive(plaintext string, salt []byte, t, m uint32, p uint8, keyLen uint32) []byte {
	a.slots <- struct{}{}
	defer func() { <-a.slots }()

	return argon2.IDKey([]byte(plaintext+a.pepper), salt, t, m, p, keyLen)
}

func (a *Argon2id) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptySecret
	}

	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hash: read salt: %w", err)
	}

	key := a.derive(plaintext, salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.memory, a.iterations, a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *Argon2id) Verify(digest, plaintext string) bool {
	if digest == "" || plaintext == "" {
		return false
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var (
		memory, iterations uint32
		parallelism        uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := a.derive(plaintext, salt, iterations, memory, parallelism, uint32(len(want)))

	return subtle.ConstantTimeCompare(want, got) == 1
}
