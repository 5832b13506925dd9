package dualstore

import (
	"context"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// StructuredStore is the authoritative store. postgres.Postgres implements it.
type StructuredStore interface {
	SaveBatch(ctx context.Context, fs []floats.Float, ps []floats.Profile) (nFloats, nProfiles int, err error)
	CountFloats(ctx context.Context) (int64, error)
}

type VectorStore interface {
	Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error
	Count(ctx context.Context, collectionName string) (uint64, error)
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}
