// Package config reads typed settings by dotted key ("database.url").
//
// Values come from a YAML file and may be overridden by environment variables
// named after the key in upper case with dots replaced by underscores
// (DATABASE_URL).
package config

import (
	"io"
	"time"
)

// Config is the read side of the settings store. Missing keys return the zero
// value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer number of minutes.
	GetMinute(key string) time.Duration

	// GetBinary reads a base64 value; invalid base64 yields nil.
	GetBinary(key string) []byte
	// GetArray reads "a,b,c". Blank elements are dropped.
	GetArray(key string) []string
	// GetMap reads "k1:v1,k2:v2".
	GetMap(key string) map[string]string
}
