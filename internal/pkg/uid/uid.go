// Package uid generates identifiers: snowflake numbers for rows and UUIDs for
// tokens and correlation IDs.
package uid

// NumberID generates unique, roughly time-ordered integers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique strings.
type StringID interface {
	Generate() string
}
