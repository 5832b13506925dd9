package minio

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// FXModule provides *MinioClient.
var FXModule = fx.Module("minio",
	fx.Provide(
		NewClientWithDI,
	),
)

type MinioParams struct {
	fx.In

	Config   Config
	Logger   Logger
	Observer observability.Observer `optional:"true"`
}

func NewClientWithDI(p MinioParams) (*MinioClient, error) {
	c, err := NewClient(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	if p.Observer != nil {
		c = c.WithObserver(p.Observer)
	}
	return c, nil
}
