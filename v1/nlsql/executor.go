package nlsql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor runs guarded statements in read-only transactions.
type Executor struct {
	pool     *pgxpool.Pool
	rowLimit int
	timeout  time.Duration
}

// NewPool opens a pgx pool for cfg.DSN.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("nlsql: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("nlsql: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("nlsql: ping: %w", err)
	}
	return pool, nil
}

func NewExecutor(pool *pgxpool.Pool, cfg Config) *Executor {
	limit := cfg.RowLimit
	if limit <= 0 {
		limit = DefaultConfig().RowLimit
	}
	return &Executor{pool: pool, rowLimit: limit, timeout: cfg.StatementTimeout}
}

// Query guards stmt, runs it read-only and returns at most the row limit.
func (e *Executor) Query(ctx context.Context, stmt string) ([]map[string]any, error) {
	stmt, err := Guard(stmt)
	if err != nil {
		return nil, err
	}

	tx, err := e.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("nlsql: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if e.timeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", e.timeout.Milliseconds())); err != nil {
			return nil, fmt.Errorf("nlsql: set timeout: %w", err)
		}
	}

	rows, err := tx.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("nlsql: query: %w", err)
	}
	defer rows.Close()

	out, err := collectRows(rows, e.rowLimit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Executor) Close() {
	e.pool.Close()
}

func collectRows(rows pgx.Rows, limit int) ([]map[string]any, error) {
	fields := rows.FieldDescriptions()
	out := make([]map[string]any, 0)

	for rows.Next() {
		if len(out) >= limit {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("nlsql: scan: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[f.Name] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nlsql: rows: %w", err)
	}
	return out, nil
}

// normalize turns pgx driver types into JSON-friendly values.
func normalize(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
