package storage

import (
	"context"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type GCSOptions struct {
	// CredentialsJSON is a service account key. When empty, application
	// default credentials are used.
	CredentialsJSON []byte
	Endpoint        string
	WithoutAuth     bool

	// GoogleAccessID and PrivateKey sign URLs without calling the IAM API.
	GoogleAccessID string
	PrivateKey     []byte
}

type GCS struct {
	client *gcs.Client
	opts   GCSOptions
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	var clientOpts []option.ClientOption

	if opts.WithoutAuth {
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if len(opts.CredentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, opts.CredentialsJSON, gcs.ScopeReadOnly)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &GCS{client: client, opts: opts}, nil
}

func (g *GCS) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if err := checkObject(bucket, key); err != nil {
		return "", err
	}

	return g.client.Bucket(bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:         gcs.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(expiry),
		GoogleAccessID: g.opts.GoogleAccessID,
		PrivateKey:     g.opts.PrivateKey,
	})
}

func (g *GCS) Close() error { return g.client.Close() }
