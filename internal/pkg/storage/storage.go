// Package storage signs short-lived download URLs for objects held in S3,
// MinIO or Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrInvalidObject is returned for an empty bucket or key.
var ErrInvalidObject = errors.New("storage: bucket and key are required")

// Presigner issues time-limited GET URLs.
type Presigner interface {
	io.Closer

	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

const (
	DriverS3    = "s3"
	DriverMinIO = "minio"
	DriverGCS   = "gcs"
)

// ErrUnknownDriver is returned by New for an unsupported driver name.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// Options carries per-driver settings.
type Options struct {
	S3    S3Options
	MinIO MinIOOptions
	GCS   GCSOptions
}

// New builds the Presigner for driver.
func New(ctx context.Context, driver string, opts Options) (Presigner, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMinIO:
		return NewMinIO(opts.MinIO)
	case DriverGCS:
		return NewGCS(ctx, opts.GCS)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func checkObject(bucket, key string) error {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidObject
	}
	return nil
}
