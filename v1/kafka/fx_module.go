package kafka

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// FXModule provides *KafkaClient and closes it on stop.
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// ConsumerModule provides *Consumer and runs it while the application is up.
var ConsumerModule = fx.Module("kafka-consumer",
	fx.Provide(
		NewConsumerWithDI,
	),
	fx.Invoke(RegisterConsumerLifecycle),
)

type KafkaParams struct {
	fx.In

	Config     Config
	Logger     Logger
	Observer   observability.Observer `optional:"true"`
	Propagator Propagator             `optional:"true"`
}

func NewClientWithDI(p KafkaParams) (*KafkaClient, error) {
	c, err := NewClient(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	if p.Observer != nil {
		c = c.WithObserver(p.Observer)
	}
	if p.Propagator != nil {
		c = c.WithPropagator(p.Propagator)
	}
	return c, nil
}

func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}

type ConsumerParams struct {
	fx.In

	Config     Config
	Client     *KafkaClient
	Ingester   Ingester
	Logger     Logger
	Observer   observability.Observer `optional:"true"`
	Propagator Propagator             `optional:"true"`
}

func NewConsumerWithDI(p ConsumerParams) *Consumer {
	c := NewConsumer(p.Config, p.Client.Reader(), p.Ingester, p.Logger)
	if p.Observer != nil {
		c = c.WithObserver(p.Observer)
	}
	if p.Propagator != nil {
		c = c.WithPropagator(p.Propagator)
	}
	return c
}

// RegisterConsumerLifecycle runs the consumer in the background. A consumer
// that stops on a reader error is logged, not restarted.
func RegisterConsumerLifecycle(lc fx.Lifecycle, c *Consumer) {
	wg := &sync.WaitGroup{}
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := c.Run(runCtx); err != nil {
					c.logger.Error("kafka consumer stopped", err, map[string]interface{}{"topic": c.topic})
				}
			}()
			c.logger.Info("kafka consumer started", nil, map[string]interface{}{"topic": c.topic})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			wg.Wait()
			return nil
		},
	})
}
