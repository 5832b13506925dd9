package router

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

// FXModule provides a shared *Ledger and a *Router. The application must
// supply Config, StructuredBackend, VectorBackend and Logger.
var FXModule = fx.Module("router",
	fx.Provide(
		NewLedger,
		NewRouterWithDI,
	),
)

// RouterParams groups the router dependencies for fx.
type RouterParams struct {
	fx.In

	Config     Config
	Structured StructuredBackend
	Vector     VectorBackend
	Ledger     *Ledger
	Logger     Logger
	Tracer     *tracer.Tracer         `optional:"true"`
	Observer   observability.Observer `optional:"true"`
}

// NewRouterWithDI builds a Router from injected dependencies.
func NewRouterWithDI(p RouterParams) *Router {
	r := NewRouter(p.Config, p.Structured, p.Vector, p.Ledger, p.Logger)
	if p.Tracer != nil {
		r = r.WithTracer(p.Tracer)
	}
	if p.Observer != nil {
		r = r.WithObserver(p.Observer)
	}
	return r
}
