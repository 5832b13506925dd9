package nlsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// FXModule provides *Translator and *Executor. Config.DSN must be set.
var FXModule = fx.Module("nlsql",
	fx.Provide(
		func(cfg Config) (Completer, error) { return NewOpenAICompleter(cfg) },
		NewTranslator,
		newPoolWithLifecycle,
		NewExecutor,
	),
)

func newPoolWithLifecycle(lc fx.Lifecycle, cfg Config) (*pgxpool.Pool, error) {
	pool, err := NewPool(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool, nil
}
