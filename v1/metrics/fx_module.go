package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/router"
)

// FXModule provides *Metrics, exposes it as the observability.Observer of
// every client in the graph and runs the /metrics server.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) observability.Observer { return m },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// LedgerModule exports the router ledger. It needs a *router.Ledger in the graph.
var LedgerModule = fx.Module("metrics-ledger",
	fx.Invoke(RegisterLedgerCollector),
)

// Logger is the subset of logger.Logger used for lifecycle logs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// RegisterMetricsLifecycle serves /metrics in the background and shuts the
// server down on stop.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Prometheus metrics server", nil, nil)
			return m.Server.Shutdown(ctx)
		},
	})
}

func RegisterLedgerCollector(m *Metrics, ledger *router.Ledger) error {
	return m.Register(NewLedgerCollector(ledger))
}
