package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// EnsureCollection creates a cosine collection of vectorSize dimensions if
// it does not exist yet. An existing collection is left untouched.
func (c *QdrantClient) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	exists, err := c.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection %q: %w", name, err)
	}
	if exists {
		c.logger.Debug("qdrant collection already exists", nil, map[string]interface{}{"collection": name})
		return nil
	}

	err = c.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", name, err)
	}

	c.logger.Info("created qdrant collection", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": vectorSize,
	})
	return nil
}

// Insert upserts inputs in batches of defaultBatchSize. Ids that are neither
// UUIDs nor unsigned integers are stored under a derived UUID.
func (c *QdrantClient) Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error {
	if len(inputs) == 0 {
		return nil
	}

	for start := 0; start < len(inputs); start += defaultBatchSize {
		end := min(start+defaultBatchSize, len(inputs))
		if err := c.upsertBatch(ctx, collectionName, inputs[start:end]); err != nil {
			return fmt.Errorf("qdrant: batch upsert failed at [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

func (c *QdrantClient) upsertBatch(ctx context.Context, collectionName string, batch []vectordb.EmbeddingInput) (err error) {
	start := time.Now()
	defer func() { c.observe("upsert", collectionName, start, err, int64(len(batch)), nil) }()

	points, err := toPoints(batch)
	if err != nil {
		return err
	}

	wait := true
	_, err = c.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           &wait,
	})
	return err
}

// Search runs each request as a Query call, results in request order.
func (c *QdrantClient) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("at least one search request is required")
	}

	results := make([][]vectordb.SearchResult, 0, len(requests))
	for i, req := range requests {
		res, err := c.search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request [%d]: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *QdrantClient) search(ctx context.Context, req vectordb.SearchRequest) (results []vectordb.SearchResult, err error) {
	if err := validateSearchInput(req.CollectionName, req.Vector, req.TopK); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { c.observe("search", req.CollectionName, start, err, int64(len(results)), nil) }()

	limit := uint64(req.TopK)
	resp, err := c.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.CollectionName,
		Query:          qdrant.NewQuery(req.Vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         convertFilterSet(req.Filters),
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return parseScoredPoints(resp)
}

// SearchByMetadata returns up to req.Limit points matching the filter,
// without any vector.
func (c *QdrantClient) SearchByMetadata(ctx context.Context, req vectordb.MetadataRequest) (results []vectordb.SearchResult, err error) {
	if req.CollectionName == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	if req.Limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	start := time.Now()
	defer func() { c.observe("scroll", req.CollectionName, start, err, int64(len(results)), nil) }()

	limit := uint32(req.Limit)
	points, err := c.api.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: req.CollectionName,
		Filter:         convertFilterSet(req.Filters),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: scroll failed: %w", err)
	}
	return parseRetrievedPoints(points)
}

// Count returns the exact number of points in the collection.
func (c *QdrantClient) Count(ctx context.Context, collectionName string) (n uint64, err error) {
	start := time.Now()
	defer func() { c.observe("count", collectionName, start, err, int64(n), nil) }()

	exact := true
	n, err = c.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count failed: %w", err)
	}
	return n, nil
}

// Delete removes points by id.
func (c *QdrantClient) Delete(ctx context.Context, collectionName string, ids []string) (err error) {
	if len(ids) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { c.observe("delete", collectionName, start, err, int64(len(ids)), nil) }()

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, toPointID(id))
	}

	wait := true
	_, err = c.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete failed: %w", err)
	}
	return nil
}

// GetCollection describes a collection.
func (c *QdrantClient) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	info, err := c.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to get collection %q: %w", name, err)
	}

	size, distance := extractVectorDetails(info)
	return &vectordb.Collection{
		Name:       name,
		Status:     info.GetStatus().String(),
		VectorSize: size,
		Distance:   distance,
		PointCount: info.GetPointsCount(),
	}, nil
}
