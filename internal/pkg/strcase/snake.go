// Package strcase converts Go identifiers into wire-style names.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier such as "MobileNumber" or "OTPExpiresAt"
// to snake_case ("mobile_number", "otp_expires_at"). Acronyms stay together.
func ToLowerSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// wordStart reports whether the upper-case rune at i opens a new word.
func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	// end of an acronym: "OTPExpires" splits before the E
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
