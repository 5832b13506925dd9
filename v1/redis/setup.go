package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// RedisClient wraps go-redis with observer hooks and lock helpers.
type RedisClient struct {
	client   redis.UniversalClient
	cfg      Config
	logger   Logger
	observer observability.Observer

	// mu protects client during Close
	mu sync.RWMutex
}

// NewClient builds a client for a standalone Redis. It does not dial; use
// Ping to check connectivity.
func NewClient(cfg Config, logger Logger) (*RedisClient, error) {
	cfg = cfg.withDefaults()

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		tlsConfig, err = createTLSConfig(cfg.TLS, cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		TLSConfig:       tlsConfig,
	})

	logger.Info("redis client initialized", nil, map[string]interface{}{
		"addr": fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		"db":   cfg.DB,
	})

	return &RedisClient{client: client, cfg: cfg, logger: logger}, nil
}

func createTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	} else if defaultServerName != "" {
		tlsConfig.ServerName = defaultServerName
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Ping checks connectivity.
func (r *RedisClient) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("closing redis client", nil, nil)
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			r.logger.Warn("failed to close redis client", err, nil)
			return err
		}
	}
	return nil
}

// WithObserver sets the observer and returns the client for chaining.
func (r *RedisClient) WithObserver(observer observability.Observer) *RedisClient {
	r.observer = observer
	return r
}
