package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// Generator produces numeric passcodes.
type Generator interface {
	// Generate returns a fresh code of Digits() characters.
	Generate() (string, error)
	// Digits returns the code width.
	Digits() int
}

// Numeric is a Generator backed by a cryptographic random source.
type Numeric struct {
	digits otp.Digits
	bound  *big.Int
	rand   io.Reader
}

// NewNumeric returns a generator for codes of the given width. Widths other
// than 6 and 8 fall back to 6.
func NewNumeric(digits int) *Numeric {
	d := otp.Digits(digits)
	if d != otp.DigitsSix && d != otp.DigitsEight {
		d = otp.DigitsSix
	}

	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Length())), nil)

	return &Numeric{digits: d, bound: bound, rand: rand.Reader}
}

func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.bound)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}

	return n.digits.Format(int32(v.Int64())), nil
}

func (n *Numeric) Digits() int { return n.digits.Length() }

// IsNumeric reports whether code is a non-empty run of ASCII digits.
func IsNumeric(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
