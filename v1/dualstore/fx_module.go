package dualstore

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

var FXModule = fx.Module("dualstore",
	fx.Provide(
		NewServiceWithDI,
	),
)

type ServiceParams struct {
	fx.In

	Config     Config
	Structured StructuredStore
	Vectors    VectorStore
	Embedder   Embedder
	Logger     Logger
	Observer   observability.Observer `optional:"true"`
}

func NewServiceWithDI(p ServiceParams) *Service {
	s := NewService(p.Config, p.Structured, p.Vectors, p.Embedder, p.Logger)
	if p.Observer != nil {
		s = s.WithObserver(p.Observer)
	}
	return s
}
