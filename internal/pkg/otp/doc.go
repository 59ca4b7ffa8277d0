// Package otp generates short numeric one-time passcodes.
//
// Codes come from crypto/rand and are zero padded to a fixed width, so "000042"
// is as likely as "982113".
package otp
