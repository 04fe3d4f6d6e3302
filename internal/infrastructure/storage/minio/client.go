// Package minio implements object storage over a MinIO or S3-compatible
// endpoint: original document bytes in the documents bucket, finished export
// artifacts in the exports bucket.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// API is the subset of the minio-go client the stores use.  Declared here so
// tests can substitute a fake.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Client wraps the minio-go client with the two buckets this platform uses.
type Client struct {
	api           API
	documents     string
	exports       string
	presignExpiry time.Duration
	log           logging.Logger
}

// NewClient connects to the endpoint, verifies reachability, and ensures
// both buckets exist.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := newClient(api, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if err := c.EnsureBuckets(ctx); err != nil {
		return nil, err
	}

	log.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation (for tests).
func NewClientWithAPI(api API, cfg config.MinIOConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return newClient(api, cfg, log)
}

func newClient(api API, cfg config.MinIOConfig, log logging.Logger) *Client {
	documents := cfg.DocumentsBucket
	if documents == "" {
		documents = "lexcompare-documents"
	}
	exports := cfg.ExportsBucket
	if exports == "" {
		exports = "lexcompare-exports"
	}
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Client{
		api:           api,
		documents:     documents,
		exports:       exports,
		presignExpiry: expiry,
		log:           log.Named("minio"),
	}
}

// EnsureBuckets creates the documents and exports buckets when missing and
// sets a 30-day expiry on export artifacts.
func (c *Client) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{c.documents, c.exports} {
		exists, err := c.api.BucketExists(ctx, bucket)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to check bucket "+bucket)
		}
		if !exists {
			if err := c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to create bucket "+bucket)
			}
			c.log.Info("created bucket", logging.String("bucket", bucket))
		}
	}

	expiryCfg := lifecycle.NewConfiguration()
	expiryCfg.Rules = []lifecycle.Rule{
		{
			ID:         "exports-cleanup",
			Status:     "Enabled",
			Expiration: lifecycle.Expiration{Days: 30},
		},
	}
	if err := c.api.SetBucketLifecycle(ctx, c.exports, expiryCfg); err != nil {
		c.log.Warn("failed to set exports bucket lifecycle", logging.Err(err))
	}
	return nil
}

// HealthCheck verifies the endpoint responds and both buckets exist.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	for _, bucket := range []string{c.documents, c.exports} {
		exists, err := c.api.BucketExists(ctx, bucket)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
		}
		if !exists {
			return errors.New(errors.ErrCodeServiceUnavailable, "bucket "+bucket+" missing")
		}
	}
	return nil
}

func (c *Client) presignedGet(ctx context.Context, bucket, key string) (string, error) {
	u, err := c.api.PresignedGetObject(ctx, bucket, key, c.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to presign download URL")
	}
	return u.String(), nil
}
