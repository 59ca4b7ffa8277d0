package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

// MaxBodyBytes caps decoded request bodies.
const MaxBodyBytes = 1 << 20

// Request wraps *http.Request with decoding helpers.
type Request struct {
	*http.Request
}

// GetHeader returns the trimmed header value.
func (r *Request) GetHeader(key string) string {
	return strings.TrimSpace(r.Header.Get(key))
}

// DecodeBody decodes exactly one JSON value into dst. Unknown fields, trailing
// data and oversized bodies are invalid format errors.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
