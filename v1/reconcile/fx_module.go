package reconcile

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

// FXModule provides *Reconciler. Add ScheduleModule to run passes on
// Config.Interval while the application is up.
var FXModule = fx.Module("reconcile",
	fx.Provide(
		NewReconcilerWithDI,
	),
)

var ScheduleModule = fx.Module("reconcile-schedule",
	fx.Invoke(RegisterScheduleLifecycle),
)

type ReconcilerParams struct {
	fx.In

	Config   Config
	Store    Store
	Vectors  VectorStore
	Embedder Embedder
	Logger   Logger
	Locker   Locker                 `optional:"true"`
	Audit    AuditSink              `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
}

func NewReconcilerWithDI(p ReconcilerParams) *Reconciler {
	r := NewReconciler(p.Config, p.Store, p.Vectors, p.Embedder, p.Logger)
	if p.Locker != nil {
		r = r.WithLocker(p.Locker)
	}
	if p.Audit != nil {
		r = r.WithAuditSink(p.Audit)
	}
	if p.Observer != nil {
		r = r.WithObserver(p.Observer)
	}
	if p.Tracer != nil {
		r = r.WithTracer(p.Tracer)
	}
	return r
}

// RegisterScheduleLifecycle starts Run in the background on start and waits
// for the current pass to stop on shutdown.
func RegisterScheduleLifecycle(lc fx.Lifecycle, r *Reconciler) {
	wg := &sync.WaitGroup{}
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if r.cfg.Interval <= 0 {
				r.logger.Info("scheduled reconciliation disabled", nil, nil)
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Run(runCtx, r.cfg.Interval)
			}()
			r.logger.Info("scheduled reconciliation started", nil, map[string]interface{}{
				"interval": r.cfg.Interval.String(),
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			wg.Wait()
			return nil
		},
	})
}
