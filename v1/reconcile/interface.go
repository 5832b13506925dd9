package reconcile

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// Store is the authoritative structured store.
type Store interface {
	FloatIDs(ctx context.Context) ([]string, error)
	GetFloats(ctx context.Context, ids []string) ([]floats.Float, error)
}

// VectorStore is the part of vectordb.Service the pass needs.
type VectorStore interface {
	SearchByMetadata(ctx context.Context, req vectordb.MetadataRequest) ([]vectordb.SearchResult, error)
	Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Locker hands out a lock per key. Acquire returns ErrLocked when another
// holder has it.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// Lock is held for one pass. Refresh extends it by its original TTL.
type Lock interface {
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}

// AuditSink receives one entry per pass, skipped passes included.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
