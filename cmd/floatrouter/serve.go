package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/metrics"
	"github.com/Aleph-Alpha/floatrouter/v1/reconcile"
	"github.com/Aleph-Alpha/floatrouter/v1/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer queries over HTTP, consume the float topic and reconcile on schedule",
	Long: `serve runs until interrupted. It answers POST /query on router.http_address,
consumes float records from Kafka into both stores, runs a reconciliation
pass every reconcile.interval and exposes Prometheus metrics, the router
ledger included. SIGHUP or POST /stats/reset resets the ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		app := fx.New(serveOptions(cfg))
		app.Run()
		return app.Err()
	},
}

func serveOptions(cfg AppConfig) fx.Option {
	return fx.Options(
		baseOptions(cfg),
		metrics.FXModule,
		storeOptions(),
		routerOptions(),
		router.ServerModule,
		metrics.LedgerModule,
		dualStoreOptions(),
		ingestOptions(),
		reconcileOptions(cfg),
		reconcile.ScheduleModule,
		fx.Invoke(registerLedgerReset),
	)
}

// registerLedgerReset resets the router ledger on every SIGHUP.
func registerLedgerReset(lc fx.Lifecycle, r *router.Router, log *logger.Logger) {
	sigs := make(chan os.Signal, 1)
	wg := &sync.WaitGroup{}
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			signal.Notify(sigs, syscall.SIGHUP)
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-runCtx.Done():
						return
					case <-sigs:
						log.Info("SIGHUP received, resetting router statistics", nil, nil)
						r.ResetStats()
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			signal.Stop(sigs)
			cancel()
			wg.Wait()
			return nil
		},
	})
}
