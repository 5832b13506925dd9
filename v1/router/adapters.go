package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// Translator turns a question into one read-only SQL statement.
type Translator interface {
	Translate(ctx context.Context, question string) (string, error)
}

// Executor runs a read-only SQL statement and returns rows keyed by column.
type Executor interface {
	Query(ctx context.Context, sql string) ([]map[string]any, error)
}

// Embedder turns texts into vectors of the collection's dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher is the part of vectordb.Service the vector adapter needs.
type Searcher interface {
	Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error)
}

// SQLBackend is the StructuredBackend over a translate-then-execute pipeline.
type SQLBackend struct {
	translator Translator
	executor   Executor
}

func NewSQLBackend(t Translator, e Executor) *SQLBackend {
	return &SQLBackend{translator: t, executor: e}
}

func (b *SQLBackend) Execute(ctx context.Context, text string) ([]StructuredRow, error) {
	stmt, err := b.translator.Translate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	rows, err := b.executor.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	out := make([]StructuredRow, len(rows))
	for i, row := range rows {
		out[i] = StructuredRow(row)
	}
	return out, nil
}

// SemanticBackend is the VectorBackend over an embedder and a vector store.
type SemanticBackend struct {
	embedder   Embedder
	searcher   Searcher
	collection string
	topK       int
}

func NewSemanticBackend(embedder Embedder, searcher Searcher, collection string, topK int) *SemanticBackend {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &SemanticBackend{
		embedder:   embedder,
		searcher:   searcher,
		collection: collection,
		topK:       topK,
	}
}

func (b *SemanticBackend) Search(ctx context.Context, text string) ([]VectorMatch, error) {
	return b.SearchWithFilters(ctx, text, nil)
}

// SearchWithFilters is Search restricted to points matching filters. A nil
// filters searches the whole collection.
func (b *SemanticBackend) SearchWithFilters(ctx context.Context, text string, filters *vectordb.FilterSet) ([]VectorMatch, error) {
	vectors, err := b.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("embed query: no vector returned")
	}

	results, err := b.searcher.Search(ctx, vectordb.SearchRequest{
		CollectionName: b.collection,
		Vector:         vectors[0],
		TopK:           b.topK,
		Filters:        filters,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", b.collection, err)
	}
	if len(results) == 0 {
		return []VectorMatch{}, nil
	}

	matches := make([]VectorMatch, 0, len(results[0]))
	for _, res := range results[0] {
		matches = append(matches, toVectorMatch(res))
	}
	return matches, nil
}

// toVectorMatch converts a cosine score into a distance and the distance
// into the similarity reported to callers.
func toVectorMatch(res vectordb.SearchResult) VectorMatch {
	distance := 1 - float64(res.Score)
	if distance < 0 {
		distance = 0
	}

	m := VectorMatch{
		ID:         res.ID,
		Distance:   distance,
		Similarity: 1 / (1 + distance),
		Metadata:   res.Payload,
	}
	if doc, ok := res.Payload[vectordb.DocumentKey].(string); ok {
		m.Document = doc
		meta := make(map[string]any, len(res.Payload))
		for k, v := range res.Payload {
			if k != vectordb.DocumentKey {
				meta[k] = v
			}
		}
		m.Metadata = meta
	}
	return m
}
