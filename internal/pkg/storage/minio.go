package storage

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOOptions struct {
	// Endpoint is host:port without scheme.
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UseSSL       bool
	Region       string
}

type MinIO struct {
	client *minio.Client
}

func NewMinIO(opts MinIOOptions) (*MinIO, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}

	return &MinIO{client: client}, nil
}

// PresignGet needs the bucket region; without MinIOOptions.Region the client
// looks it up once per bucket.
func (m *MinIO) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if err := checkObject(bucket, key); err != nil {
		return "", err
	}

	u, err := m.client.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

func (m *MinIO) Close() error { return nil }
