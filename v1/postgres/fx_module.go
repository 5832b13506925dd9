package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// FXModule provides *Postgres and runs the connection monitor while the
// application is up.
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresClientWithDI,
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// PostgresParams groups the dependencies for NewPostgresClientWithDI.
type PostgresParams struct {
	fx.In

	Config   Config
	Logger   Logger
	Observer observability.Observer `optional:"true"`
}

func NewPostgresClientWithDI(params PostgresParams) (*Postgres, error) {
	pg, err := NewPostgres(params.Config, params.Logger)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		pg = pg.WithObserver(params.Observer)
	}
	return pg, nil
}

type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle starts MonitorConnection and RetryConnection
// and stops both before closing the pool.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	runCtx, cancel := context.WithCancel(context.Background())

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(runCtx)
			}()
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			params.Postgres.closeShutdownOnce.Do(func() {
				close(params.Postgres.shutdownSignal)
			})
			wg.Wait()

			sqlDB, err := params.Postgres.DB().DB()
			if err != nil {
				return nil
			}
			return sqlDB.Close()
		},
	})
}
