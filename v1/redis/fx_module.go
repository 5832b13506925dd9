package redis

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// FXModule provides *RedisClient and pings it on start.
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// RedisParams groups the dependencies needed to create a Redis client
type RedisParams struct {
	fx.In

	Config   Config
	Logger   Logger
	Observer observability.Observer `optional:"true"`
}

func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	c, err := NewClient(params.Config, params.Logger)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		c = c.WithObserver(params.Observer)
	}
	return c, nil
}

// RegisterRedisLifecycle pings on start and closes the pool on stop.
func RegisterRedisLifecycle(lc fx.Lifecycle, client *RedisClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx); err != nil {
				client.logger.Warn("failed to ping redis on startup", err, nil)
				return err
			}
			client.logger.Info("redis client started and healthy", nil, nil)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
