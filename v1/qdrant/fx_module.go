package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// FXModule provides *QdrantClient and exposes it as vectordb.Service. On
// start it makes sure the configured collection exists.
//
//	app := fx.New(
//	    fx.Supply(qdrant.DefaultConfig()),
//	    qdrant.FXModule,
//	)
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewClientWithDI,
		func(c *QdrantClient) vectordb.Service { return c },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams groups the dependencies for NewClientWithDI.
type QdrantParams struct {
	fx.In

	Config   Config
	Logger   Logger
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI builds a client from injected dependencies.
func NewClientWithDI(p QdrantParams) (*QdrantClient, error) {
	c, err := NewQdrantClient(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	if p.Observer != nil {
		c = c.WithObserver(p.Observer)
	}
	return c, nil
}

// RegisterQdrantLifecycle ensures the float collection on start and closes
// the connection on stop.
func RegisterQdrantLifecycle(lc fx.Lifecycle, c *QdrantClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if c.cfg.Collection == "" {
				return nil
			}
			return c.EnsureCollection(ctx, c.cfg.Collection, c.cfg.VectorSize)
		},
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
}
