package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// QdrantClient implements vectordb.Service over the Qdrant gRPC API.
type QdrantClient struct {
	api      *qdrant.Client
	cfg      Config
	logger   Logger
	observer observability.Observer
}

const defaultBatchSize = 200 // points per upsert request

// NewQdrantClient connects and runs a health check.
func NewQdrantClient(cfg Config, logger Logger) (*QdrantClient, error) {
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	logger.Info("connecting to qdrant", nil, map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"port":     cfg.Port,
	})

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   cfg.Port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to initialize client: %w", err)
	}

	c := &QdrantClient{api: api, cfg: cfg, logger: logger}
	if err := c.HealthCheck(context.Background()); err != nil {
		_ = api.Close()
		return nil, err
	}
	return c, nil
}

// WithObserver attaches an observer notified after every operation.
func (c *QdrantClient) WithObserver(o observability.Observer) *QdrantClient {
	c.observer = o
	return c
}

// HealthCheck pings the server within the configured timeout.
func (c *QdrantClient) HealthCheck(ctx context.Context) error {
	if c.api == nil {
		return fmt.Errorf("qdrant: client not initialized")
	}

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: health check failed: %w", err)
	}

	c.logger.Info("qdrant health check passed", nil, map[string]interface{}{
		"title":    resp.GetTitle(),
		"version":  resp.GetVersion(),
		"endpoint": c.cfg.Endpoint,
	})
	return nil
}

// Collection returns the configured float collection name.
func (c *QdrantClient) Collection() string {
	return c.cfg.Collection
}

// Close releases the gRPC connection.
func (c *QdrantClient) Close() error {
	if c.api == nil {
		return nil
	}
	c.logger.Info("closing qdrant client", nil, nil)
	return c.api.Close()
}

func (c *QdrantClient) observe(operation, collection string, start time.Time, err error, size int64, metadata map[string]interface{}) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "qdrant",
		Operation: operation,
		Resource:  collection,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
		Metadata:  metadata,
	})
}
