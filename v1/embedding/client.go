package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Client is the public entrypoint for computing embeddings. It batches
// texts, retries transient provider failures and returns float32 vectors.
type Client struct {
	provider Provider
	cfg      Config
	logger   Logger
}

// NewClient validates cfg and builds the configured provider.
func NewClient(cfg Config, logger Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderInference:
		p, err = NewInferenceProvider(cfg)
	default:
		p, err = NewOpenAIProvider(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	logger.Info("embedding client ready", nil, map[string]interface{}{
		"provider": cfg.Provider,
		"model":    cfg.Model,
	})
	return NewClientWithProvider(p, cfg, logger), nil
}

// NewClientWithProvider wraps an existing provider.
func NewClientWithProvider(p Provider, cfg Config, logger Logger) *Client {
	return &Client{provider: p, cfg: cfg.withDefaults(), logger: logger}
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(texts))

		vecs, err := c.createWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding: batch [%d:%d]: %w", start, end, err)
		}
		if err := c.checkDimensions(vecs); err != nil {
			return nil, err
		}
		out = append(out, toFloat32(vecs)...)
	}
	return out, nil
}

func (c *Client) createWithRetry(ctx context.Context, texts []string) ([][]float64, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	b.MaxInterval = c.cfg.MaxBackoff
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxAttempts-1)), ctx)

	var result [][]float64
	attempt := 0
	op := func() error {
		attempt++
		vecs, err := c.provider.Create(ctx, c.cfg.Model, texts...)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = vecs
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("embedding request failed, retrying", err, map[string]interface{}{
			"attempt": attempt,
			"wait":    wait.String(),
			"texts":   len(texts),
		})
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) checkDimensions(vecs [][]float64) error {
	if c.cfg.Dimensions <= 0 {
		return nil
	}
	for i, v := range vecs {
		if len(v) != c.cfg.Dimensions {
			return fmt.Errorf("embedding: vector %d has %d dimensions, expected %d", i, len(v), c.cfg.Dimensions)
		}
	}
	return nil
}

// Close releases the provider if it holds resources.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}
