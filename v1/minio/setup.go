package minio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// ErrConnectionFailed is returned when the client cannot reach MinIO.
var ErrConnectionFailed = errors.New("minio: connection failed")

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// MinioClient wraps minio.Client bound to one bucket.
type MinioClient struct {
	client   *minio.Client
	cfg      Config
	logger   Logger
	observer observability.Observer
}

// NewClient connects, validates credentials and makes sure the bucket exists.
func NewClient(cfg Config, logger Logger) (*MinioClient, error) {
	client, err := connectToMinio(cfg)
	if err != nil {
		return nil, err
	}

	m := &MinioClient{client: client, cfg: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.ensureBucketExists(ctx); err != nil {
		logger.Error("failed to validate minio connection", err, map[string]interface{}{
			"endpoint": cfg.Connection.Endpoint,
		})
		return nil, err
	}
	return m, nil
}

func connectToMinio(cfg Config) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}

	return minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
}

func (m *MinioClient) ensureBucketExists(ctx context.Context) error {
	bucket := m.cfg.Connection.BucketName
	if bucket == "" {
		return fmt.Errorf("bucket name is empty")
	}

	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("%w: bucket %s: %v", ErrConnectionFailed, bucket, err)
	}
	if exists {
		return nil
	}
	if !m.cfg.Connection.AccessBucketCreation {
		return fmt.Errorf("bucket %s does not exist, please create it manually", bucket)
	}

	if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.cfg.Connection.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	m.logger.Info("created minio bucket", nil, map[string]interface{}{"bucket": bucket})
	return nil
}

// WithObserver sets the observer and returns the client for chaining.
func (m *MinioClient) WithObserver(observer observability.Observer) *MinioClient {
	m.observer = observer
	return m
}

// Bucket returns the configured bucket name.
func (m *MinioClient) Bucket() string {
	return m.cfg.Connection.BucketName
}
