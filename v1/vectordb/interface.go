package vectordb

import "context"

// Service is the vector store contract used by the router, the reconciler
// and the ingestion path. Implementations must be safe for concurrent use.
type Service interface {
	// Search runs one similarity query per request, results in request order.
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// SearchByMetadata returns up to Limit points matching the filter,
	// payload only.
	SearchByMetadata(ctx context.Context, req MetadataRequest) ([]SearchResult, error)

	// Insert upserts points; re-inserting an ID overwrites it.
	Insert(ctx context.Context, collectionName string, inputs []EmbeddingInput) error

	Delete(ctx context.Context, collectionName string, ids []string) error

	// Count returns the exact number of points.
	Count(ctx context.Context, collectionName string) (uint64, error)

	// EnsureCollection creates the collection when missing.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error

	GetCollection(ctx context.Context, name string) (*Collection, error)
}
