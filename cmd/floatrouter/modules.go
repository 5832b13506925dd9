package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/embedding"
	"github.com/Aleph-Alpha/floatrouter/v1/kafka"
	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/metrics"
	"github.com/Aleph-Alpha/floatrouter/v1/minio"
	"github.com/Aleph-Alpha/floatrouter/v1/nlsql"
	"github.com/Aleph-Alpha/floatrouter/v1/postgres"
	"github.com/Aleph-Alpha/floatrouter/v1/qdrant"
	"github.com/Aleph-Alpha/floatrouter/v1/reconcile"
	"github.com/Aleph-Alpha/floatrouter/v1/redis"
	"github.com/Aleph-Alpha/floatrouter/v1/router"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// baseOptions supplies every config section, the logger and the per-package
// Logger views of it. fx's own event log goes through zap at debug level.
func baseOptions(cfg AppConfig) fx.Option {
	return fx.Options(
		fx.Supply(
			cfg.Logger,
			cfg.Tracer,
			cfg.Metrics,
			cfg.Postgres,
			cfg.Qdrant,
			cfg.Embedding,
			cfg.NLSQL,
			cfg.Router,
			cfg.DualStore,
			cfg.Reconcile,
			cfg.Kafka,
			cfg.Redis,
			cfg.Minio,
		),
		logger.FXModule,
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Zap}
			zl.UseLogLevel(zap.DebugLevel)
			return zl
		}),
		fx.Provide(
			func(l *logger.Logger) tracer.Logger { return l },
			func(l *logger.Logger) metrics.Logger { return l },
			func(l *logger.Logger) postgres.Logger { return l },
			func(l *logger.Logger) qdrant.Logger { return l },
			func(l *logger.Logger) embedding.Logger { return l },
			func(l *logger.Logger) router.Logger { return l },
			func(l *logger.Logger) dualstore.Logger { return l },
			func(l *logger.Logger) reconcile.Logger { return l },
			func(l *logger.Logger) kafka.Logger { return l },
			func(l *logger.Logger) redis.Logger { return l },
			func(l *logger.Logger) minio.Logger { return l },
		),
	)
}

// vectorOptions brings up qdrant and the embedding client.
func vectorOptions() fx.Option {
	return fx.Options(
		qdrant.FXModule,
		embedding.FXModule,
	)
}

// storeOptions adds the structured store to vectorOptions.
func storeOptions() fx.Option {
	return fx.Options(
		postgres.FXModule,
		vectorOptions(),
	)
}

// routerOptions wires the router over nlsql and the vector store.
func routerOptions() fx.Option {
	return fx.Options(
		nlsql.FXModule,
		tracer.FXModule,
		fx.Provide(
			func(t *nlsql.Translator, e *nlsql.Executor) router.StructuredBackend {
				return router.NewSQLBackend(t, e)
			},
			func(cfg router.Config, e *embedding.Client, s vectordb.Service) router.VectorBackend {
				return router.NewSemanticBackend(e, s, cfg.Collection, cfg.TopK)
			},
		),
		router.FXModule,
	)
}

func dualStoreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			func(p *postgres.Postgres) dualstore.StructuredStore { return p },
			func(s vectordb.Service) dualstore.VectorStore { return s },
			func(e *embedding.Client) dualstore.Embedder { return e },
		),
		dualstore.FXModule,
	)
}

// reconcileOptions wires the reconciler, with the redis lock and the MinIO
// audit sink when enabled.
func reconcileOptions(cfg AppConfig) fx.Option {
	opts := []fx.Option{
		fx.Provide(
			func(p *postgres.Postgres) reconcile.Store { return p },
			func(s vectordb.Service) reconcile.VectorStore { return s },
			func(e *embedding.Client) reconcile.Embedder { return e },
		),
		reconcile.FXModule,
	}

	if cfg.Lock {
		opts = append(opts,
			redis.FXModule,
			fx.Provide(func(c *redis.RedisClient) reconcile.Locker { return reconcile.NewRedisLocker(c) }),
		)
	}

	if cfg.Audit {
		opts = append(opts,
			minio.FXModule,
			fx.Provide(func(l *logger.Logger, m *minio.MinioClient) reconcile.AuditSink {
				return reconcile.MultiSink{reconcile.NewLogSink(l), reconcile.NewObjectSink(m)}
			}),
		)
	} else {
		opts = append(opts,
			fx.Provide(func(l *logger.Logger) reconcile.AuditSink { return reconcile.NewLogSink(l) }),
		)
	}

	return fx.Options(opts...)
}

// ingestOptions runs the Kafka consumer into the dual store. It expects a
// *tracer.Tracer, which routerOptions provides.
func ingestOptions() fx.Option {
	return fx.Options(
		kafka.FXModule,
		fx.Provide(
			func(s *dualstore.Service) kafka.Ingester { return s },
			func(t *tracer.Tracer) kafka.Propagator { return t },
		),
		kafka.ConsumerModule,
	)
}

// publishOptions is the producer side of ingestOptions.
func publishOptions() fx.Option {
	return fx.Options(
		tracer.FXModule,
		fx.Provide(func(t *tracer.Tracer) kafka.Propagator { return t }),
		kafka.FXModule,
	)
}
