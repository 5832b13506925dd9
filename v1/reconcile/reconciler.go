package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// Reconciler copies floats present in the structured store but missing from
// the vector store. It only ever writes to the vector store.
//
// Every pass scans all float ids and does one metadata lookup per id, so its
// cost grows linearly with the catalogue and concurrent passes on several
// replicas duplicate work. Configure a Locker when more than one replica
// runs the schedule.
type Reconciler struct {
	cfg      Config
	store    Store
	vectors  VectorStore
	embedder Embedder
	logger   Logger

	locker   Locker
	audit    AuditSink
	observer observability.Observer
	tracer   *tracer.Tracer

	// now is swapped in tests
	now func() time.Time
}

func NewReconciler(cfg Config, store Store, vectors VectorStore, embedder Embedder, logger Logger) *Reconciler {
	return &Reconciler{
		cfg:      cfg.withDefaults(),
		store:    store,
		vectors:  vectors,
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *Reconciler) WithLocker(l Locker) *Reconciler {
	r.locker = l
	return r
}

func (r *Reconciler) WithAuditSink(s AuditSink) *Reconciler {
	r.audit = s
	return r
}

func (r *Reconciler) WithObserver(o observability.Observer) *Reconciler {
	r.observer = o
	return r
}

// WithTracer opens one span per pass. The audit entry is recorded inside it.
func (r *Reconciler) WithTracer(t *tracer.Tracer) *Reconciler {
	r.tracer = t
	return r
}

// Reconcile runs one pass. Running it twice with no writes in between
// syncs nothing the second time.
func (r *Reconciler) Reconcile(ctx context.Context) Result {
	started := r.now()
	res := Result{RunID: uuid.NewString()}

	ctx, span := r.tracer.StartSpan(ctx, "reconcile.pass")
	defer span.End()

	defer func() {
		r.tracer.SetAttributes(span, map[string]interface{}{
			"run_id":       res.RunID,
			"status":       string(res.Status),
			"scanned":      res.Scanned,
			"missing":      res.Missing,
			"synced_count": res.SyncedCount,
		})
		if res.Status == StatusError {
			r.tracer.RecordErrorOnSpan(span, errors.New(res.Message))
		}

		finished := r.now()
		r.record(ctx, AuditEntry{Result: res, StartedAt: started, FinishedAt: finished})
		r.observe(res, finished.Sub(started))
	}()

	if r.locker != nil {
		lock, err := r.locker.Acquire(ctx, r.cfg.LockKey, r.cfg.LockTTL)
		if errors.Is(err, ErrLocked) {
			res.Status = StatusSkipped
			res.Message = "another reconciliation is running"
			r.logger.Info("reconciliation skipped", nil, map[string]interface{}{"lock_key": r.cfg.LockKey})
			return res
		}
		if err != nil {
			res.Status = StatusError
			res.Message = fmt.Sprintf("acquire lock: %v", err)
			r.logger.Error("failed to acquire reconciliation lock", err, nil)
			return res
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				r.logger.Warn("failed to release reconciliation lock", err, nil)
			}
		}()
		stop := r.keepAlive(ctx, lock)
		defer stop()
	}

	r.pass(ctx, &res)
	return res
}

// keepAlive refreshes lock every third of its TTL until the returned stop
// function is called. A failed refresh is logged; the pass keeps running.
func (r *Reconciler) keepAlive(ctx context.Context, lock Lock) (stop func()) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.cfg.LockTTL / 3)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if err := lock.Refresh(runCtx); err != nil && runCtx.Err() == nil {
					r.logger.Warn("failed to refresh reconciliation lock", err, map[string]interface{}{
						"lock_key": r.cfg.LockKey,
					})
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (r *Reconciler) pass(ctx context.Context, res *Result) {
	ids, err := r.store.FloatIDs(ctx)
	if err != nil {
		res.Status = StatusError
		res.Message = fmt.Sprintf("list float ids: %v", err)
		r.logger.Error("reconciliation failed to enumerate floats", err, nil)
		return
	}
	res.Scanned = len(ids)

	missing, err := r.findMissing(ctx, ids)
	if err != nil {
		res.Status = StatusError
		res.Message = fmt.Sprintf("vector lookup: %v", err)
		r.logger.Error("reconciliation lookup failed", err, map[string]interface{}{"scanned": len(ids)})
		return
	}
	res.Missing = len(missing)

	if len(missing) == 0 {
		res.Status = StatusSuccess
		r.logger.Info("reconciliation found nothing to sync", nil, map[string]interface{}{"scanned": len(ids)})
		return
	}

	staged, err := r.store.GetFloats(ctx, missing)
	if err != nil {
		res.Status = StatusError
		res.Message = fmt.Sprintf("load missing floats: %v", err)
		r.logger.Error("reconciliation failed to load floats", err, map[string]interface{}{"missing": len(missing)})
		return
	}

	for start := 0; start < len(staged); start += r.cfg.BatchSize {
		if ctx.Err() != nil {
			for _, f := range staged[start:] {
				res.Failed = append(res.Failed, f.FloatID)
			}
			break
		}
		end := min(start+r.cfg.BatchSize, len(staged))
		batch := staged[start:end]

		if err := r.syncBatch(ctx, batch); err != nil {
			r.logger.Warn("reconciliation batch failed", err, map[string]interface{}{
				"batch_start": start,
				"batch_size":  len(batch),
			})
			for _, f := range batch {
				res.Failed = append(res.Failed, f.FloatID)
			}
			continue
		}
		res.SyncedCount += len(batch)
	}

	switch {
	case len(res.Failed) == 0:
		res.Status = StatusSuccess
	case res.SyncedCount == 0:
		res.Status = StatusError
		res.Message = fmt.Sprintf("all %d missing floats failed to sync", len(res.Failed))
	default:
		res.Status = StatusPartial
		res.Message = fmt.Sprintf("%d of %d missing floats failed to sync", len(res.Failed), len(staged))
	}

	r.logger.Info("reconciliation finished", nil, map[string]interface{}{
		"run_id":  res.RunID,
		"scanned": res.Scanned,
		"missing": res.Missing,
		"synced":  res.SyncedCount,
		"failed":  len(res.Failed),
	})
}

// findMissing looks every id up by metadata and returns the absent ones in
// scan order.
func (r *Reconciler) findMissing(ctx context.Context, ids []string) ([]string, error) {
	absent := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.LookupConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			hits, err := r.vectors.SearchByMetadata(gctx, vectordb.MetadataRequest{
				CollectionName: r.cfg.Collection,
				Filters:        vectordb.ByFloatID(id),
				Limit:          1,
			})
			if err != nil {
				return fmt.Errorf("float %s: %w", id, err)
			}
			absent[i] = len(hits) == 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var missing []string
	for i, id := range ids {
		if absent[i] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *Reconciler) syncBatch(ctx context.Context, batch []floats.Float) error {
	vectors, err := r.embedder.Embed(ctx, floats.Texts(batch))
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed: got %d vectors for %d floats", len(vectors), len(batch))
	}

	inputs := make([]vectordb.EmbeddingInput, len(batch))
	for i, f := range batch {
		inputs[i] = f.EmbeddingInput(vectors[i])
	}
	if err := r.vectors.Insert(ctx, r.cfg.Collection, inputs); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func (r *Reconciler) record(ctx context.Context, entry AuditEntry) {
	if r.audit == nil {
		return
	}
	if err := r.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("failed to write reconciliation audit entry", err, map[string]interface{}{"run_id": entry.RunID})
	}
}

func (r *Reconciler) observe(res Result, d time.Duration) {
	if r.observer == nil {
		return
	}
	var err error
	if res.Status == StatusError {
		err = errors.New(res.Message)
	}
	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "reconcile",
		Operation:   "reconcile",
		Resource:    r.cfg.Collection,
		SubResource: string(res.Status),
		Duration:    d,
		Error:       err,
		Size:        int64(res.SyncedCount),
		Metadata: map[string]interface{}{
			"scanned": res.Scanned,
			"missing": res.Missing,
			"failed":  len(res.Failed),
		},
	})
}

// Run reconciles once immediately and then every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.Reconcile(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reconcile(ctx)
		}
	}
}
