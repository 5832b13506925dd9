package dualstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// Service writes float batches to both stores, structured store first.
type Service struct {
	cfg        Config
	structured StructuredStore
	vectors    VectorStore
	embedder   Embedder
	logger     Logger
	observer   observability.Observer
}

func NewService(cfg Config, structured StructuredStore, vectors VectorStore, embedder Embedder, logger Logger) *Service {
	return &Service{
		cfg:        cfg,
		structured: structured,
		vectors:    vectors,
		embedder:   embedder,
		logger:     logger,
	}
}

func (s *Service) WithObserver(o observability.Observer) *Service {
	s.observer = o
	return s
}

// Ingest stores records in the structured store and then embeds and inserts
// their floats into the vector store. A failed vector write leaves the
// structured write in place and reports StatusPartial.
func (s *Service) Ingest(ctx context.Context, records []floats.Record) (res IngestResult) {
	start := time.Now()
	defer func() { s.observe("ingest", start, res, len(records)) }()

	if len(records) == 0 {
		return IngestResult{Status: StatusSuccess}
	}

	fs, ps := floats.Split(records)

	nf, np, err := s.structured.SaveBatch(ctx, fs, ps)
	if err != nil {
		s.logger.Error("structured write failed", err, map[string]interface{}{"floats": len(fs), "profiles": len(ps)})
		return IngestResult{Status: StatusError, Message: fmt.Sprintf("structured store: %v", err)}
	}
	res = IngestResult{SQLCount: nf, ProfileCount: np}

	if err := s.storeVectors(ctx, fs); err != nil {
		s.logger.Warn("vector write failed, floats left for reconciliation", err, map[string]interface{}{"floats": len(fs)})
		res.Status = StatusPartial
		res.Message = fmt.Sprintf("vector store: %v", err)
		return res
	}

	res.Status = StatusSuccess
	res.VectorCount = len(fs)
	s.logger.Info("floats ingested", nil, map[string]interface{}{
		"floats":   nf,
		"profiles": np,
		"vectors":  res.VectorCount,
	})
	return res
}

func (s *Service) storeVectors(ctx context.Context, fs []floats.Float) error {
	vecs, err := s.embedder.Embed(ctx, floats.Texts(fs))
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vecs) != len(fs) {
		return fmt.Errorf("embed: got %d vectors for %d floats", len(vecs), len(fs))
	}

	inputs := make([]vectordb.EmbeddingInput, len(fs))
	for i, f := range fs {
		inputs[i] = f.EmbeddingInput(vecs[i])
	}
	return s.vectors.Insert(ctx, s.cfg.Collection, inputs)
}

// Stats counts floats in both stores concurrently.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.structured.CountFloats(gctx)
		if err != nil {
			return fmt.Errorf("count structured floats: %w", err)
		}
		st.SQLCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.vectors.Count(gctx, s.cfg.Collection)
		if err != nil {
			return fmt.Errorf("count vectors: %w", err)
		}
		st.VectorCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st.SyncStatus = SyncOutOfSync
	if st.SQLCount >= 0 && uint64(st.SQLCount) == st.VectorCount {
		st.SyncStatus = SyncHealthy
	}
	return st, nil
}

func (s *Service) observe(op string, start time.Time, res IngestResult, size int) {
	if s.observer == nil {
		return
	}
	var err error
	if res.Status == StatusError {
		err = errors.New(res.Message)
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "dualstore",
		Operation:   op,
		Resource:    s.cfg.Collection,
		SubResource: string(res.Status),
		Duration:    time.Since(start),
		Error:       err,
		Size:        int64(size),
	})
}
