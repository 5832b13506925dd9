package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

//go:generate mockgen -source=setup.go -destination=mock_logger_test.go -package=postgres

// Logger is the subset of logger.Logger the package uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Postgres wraps gorm.DB with connection monitoring and reconnection.
//
// The active *gorm.DB is held in an atomic pointer and swapped on
// reconnection without blocking readers.
type Postgres struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	logger          Logger
	observer        observability.Observer
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres opens the connection pool. It fails if the first connection
// cannot be established.
func NewPostgres(cfg Config, logger Logger) (*Postgres, error) {
	conn, err := connectToPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to postgres: %w", err)
	}

	logger.Info("connected to postgres", nil, map[string]interface{}{
		"host":     cfg.Connection.Host,
		"database": cfg.Connection.DbName,
	})

	pg := &Postgres{
		cfg:             cfg,
		logger:          logger,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	pg.client.Store(conn)
	return pg, nil
}

// WithObserver attaches an observer notified after every store operation.
func (p *Postgres) WithObserver(o observability.Observer) *Postgres {
	p.observer = o
	return p
}

// DB returns the current gorm handle.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

func connectToPostgres(cfg Config) (*gorm.DB, error) {
	database, err := gorm.Open(
		postgres.Open(cfg.DSN()),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgreSQL database instance: %w", err)
	}

	maxOpen := cfg.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := cfg.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := cfg.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	return database, nil
}

// RetryConnection waits for failure signals from MonitorConnection and
// reconnects until it succeeds, the context ends or shutdown is signalled.
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			return
		case <-ctx.Done():
			return
		case _, ok := <-p.retryChanSignal:
			if !ok {
				return
			}
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(p.cfg)
					if err != nil {
						p.logger.Error("postgres reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.client.Store(newConn)
					p.logger.Info("reconnected to postgres", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection health-checks the pool every 10 seconds and signals
// RetryConnection on failure.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	defer p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			return
		case <-ticker.C:
			if err := p.HealthCheck(ctx); err != nil {
				p.logger.Warn("postgres health check failed", err, nil)
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// HealthCheck pings the database within 5 seconds.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	dbConn := p.DB()
	if dbConn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}

// GracefulShutdown stops the monitor loops and closes the pool.
func (p *Postgres) GracefulShutdown() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	sqlDB, err := p.DB().DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

func (p *Postgres) observe(operation, resource string, start time.Time, err error, size int64) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component: "postgres",
		Operation: operation,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}
