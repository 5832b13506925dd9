package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Logger from a logger.Config and flushes it on shutdown.
//
//	app := fx.New(
//	    fx.Supply(logger.Config{Level: logger.Info}),
//	    logger.FXModule,
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle syncs buffered entries when the app stops.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr returns EINVAL/ENOTTY on sync in most terminals.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
