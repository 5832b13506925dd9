package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

// Router classifies queries, picks a strategy from the ledger and executes
// it against the two backends. It is safe for concurrent use.
type Router struct {
	cfg        Config
	structured StructuredBackend
	vector     VectorBackend
	ledger     *Ledger
	classifier *Classifier
	workers    *semaphore.Weighted
	logger     Logger
	tracer     *tracer.Tracer
	observer   observability.Observer
}

// NewRouter wires a router around the two backends. The ledger is owned by
// the caller so that several routers, or a metrics collector, can share it.
func NewRouter(cfg Config, structured StructuredBackend, vector VectorBackend, ledger *Ledger, logger Logger) *Router {
	cfg = cfg.withDefaults()
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Router{
		cfg:        cfg,
		structured: structured,
		vector:     vector,
		ledger:     ledger,
		classifier: defaultClassifier,
		workers:    semaphore.NewWeighted(cfg.StructuredWorkers),
		logger:     logger,
	}
}

// WithClassifier swaps the pattern set.
func (r *Router) WithClassifier(c *Classifier) *Router {
	r.classifier = c
	return r
}

// WithTracer enables one span per route and per backend call.
func (r *Router) WithTracer(t *tracer.Tracer) *Router {
	r.tracer = t
	return r
}

// WithObserver reports every route and backend call to o.
func (r *Router) WithObserver(o observability.Observer) *Router {
	r.observer = o
	return r
}

// Ledger exposes the ledger the router writes to.
func (r *Router) Ledger() *Ledger {
	return r.ledger
}

// PerformanceSummary returns the current ledger snapshot.
func (r *Router) PerformanceSummary() LedgerSnapshot {
	return r.ledger.Snapshot()
}

// ResetStats zeroes the ledger.
func (r *Router) ResetStats() {
	r.ledger.Reset()
	r.logger.Info("performance ledger reset", nil, nil)
}

// Route answers q. It never panics and never returns an error: every
// failure ends up in the envelope's Status, SQLError, VectorError and
// Message fields.
func (r *Router) Route(ctx context.Context, q Query) (env Envelope) {
	start := time.Now()
	requested := q.Strategy
	if requested == "" {
		requested = Adaptive
	}

	ctx, span := r.tracer.StartSpan(ctx, "router.route")
	defer span.End()

	class := r.classifier.Classify(q.Text)
	strategy := requested

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: %v", ErrPanic, p)
			r.logger.Error("query routing panicked", err, map[string]interface{}{"query": q.Text})
			env = Envelope{Status: StatusError, Message: err.Error(), Results: []ScoredRecord{}}
		}
		env.Query = q.Text
		env.QueryType = class
		env.StrategyUsed = strategy
		env.TotalTime = time.Since(start).Seconds()
		env.OptimizerStats = r.ledger.Snapshot()
		if env.Results == nil {
			env.Results = []ScoredRecord{}
		}

		r.tracer.SetAttributes(span, map[string]interface{}{
			"query_type":    string(class),
			"strategy":      string(strategy),
			"source":        string(env.Source),
			"status":        string(env.Status),
			"fallback_used": env.FallbackUsed,
			"results":       len(env.Results),
		})
		if env.Status == StatusError || env.Status == StatusTimeout {
			r.tracer.RecordErrorOnSpan(span, errors.New(env.Message))
		}
		r.observe("route", string(strategy), string(env.Source), time.Since(start), statusErr(env), int64(len(env.Results)),
			map[string]interface{}{"status": string(env.Status), "query_type": string(class)})
	}()

	if !requested.valid() {
		return Envelope{Status: StatusError, Message: fmt.Sprintf("unknown strategy %q", requested)}
	}

	strategy = Select(class, r.ledger.Snapshot(), requested, r.cfg.Thresholds)
	r.logger.Debug("strategy selected", nil, map[string]interface{}{
		"query_type": string(class),
		"requested":  string(requested),
		"strategy":   string(strategy),
	})

	switch strategy {
	case SQLFirst:
		return r.sqlFirst(ctx, q.Text)
	case VectorFirst:
		return r.vectorFirst(ctx, q.Text)
	default:
		return r.concurrent(ctx, q.Text)
	}
}

func (r *Router) sqlFirst(ctx context.Context, text string) Envelope {
	sql := r.callStructured(ctx, text)
	if sql.succeeded() && len(sql.Records) > 0 {
		return Envelope{
			Status:  StatusSuccess,
			Source:  SourceSQL,
			Results: score(sql.Records),
			Message: "SQL query successful",
		}
	}

	sqlErr := sql.message()
	if sql.succeeded() {
		sqlErr = "structured backend returned no rows"
	}
	r.logger.Info("falling back to vector search", nil, map[string]interface{}{
		"sql_status": string(sql.status()),
		"sql_error":  sqlErr,
	})

	vec := r.callVector(ctx, text)
	return Envelope{
		Status:       vec.status(),
		Source:       SourceVectorFallback,
		Results:      score(vec.Records),
		FallbackUsed: true,
		SQLError:     sqlErr,
		VectorError:  vec.message(),
		Message:      "Used vector search as fallback",
	}
}

// vectorFirst does not fall back to the structured backend.
func (r *Router) vectorFirst(ctx context.Context, text string) Envelope {
	vec := r.callVector(ctx, text)
	msg := "Vector search completed"
	if !vec.succeeded() {
		msg = vec.message()
	}
	return Envelope{
		Status:      vec.status(),
		Source:      SourceVector,
		Results:     score(vec.Records),
		VectorError: vec.message(),
		Message:     msg,
	}
}

// concurrent queries both backends at once. A failure on one side never
// cancels the other; results are concatenated, not ranked.
func (r *Router) concurrent(ctx context.Context, text string) Envelope {
	start := time.Now()

	var sql, vec Outcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sql = r.callStructured(ctx, text)
	}()
	go func() {
		defer wg.Done()
		vec = r.callVector(ctx, text)
	}()
	wg.Wait()

	r.ledger.RecordConcurrent(time.Since(start))

	merged := make([]ScoredRecord, 0, len(sql.Records)+len(vec.Records))
	if sql.succeeded() {
		merged = append(merged, score(sql.Records)...)
	}
	if vec.succeeded() {
		merged = append(merged, score(vec.Records)...)
	}

	status := StatusSuccess
	if len(merged) == 0 {
		status = StatusNoResults
	}

	return Envelope{
		Status:       status,
		Source:       SourceConcurrent,
		Results:      merged,
		SQLStatus:    sql.status(),
		VectorStatus: vec.status(),
		SQLError:     sql.message(),
		VectorError:  vec.message(),
		Message:      fmt.Sprintf("Concurrent search returned %d results", len(merged)),
	}
}

func (r *Router) callStructured(ctx context.Context, text string) Outcome {
	ctx, span := r.tracer.StartSpan(ctx, "router.backend.sql")
	defer span.End()

	out := boundedCall(ctx, r.cfg.SQLTimeout, r.acquireWorker, func(ctx context.Context) ([]Record, error) {
		rows, err := r.structured.Execute(ctx, text)
		return structuredRecords(rows), err
	})
	r.finishCall(span, BackendSQL, r.cfg.SQLTimeout, out)
	return out
}

func (r *Router) callVector(ctx context.Context, text string) Outcome {
	ctx, span := r.tracer.StartSpan(ctx, "router.backend.vector")
	defer span.End()

	out := boundedCall(ctx, r.cfg.VectorTimeout, nil, func(ctx context.Context) ([]Record, error) {
		matches, err := r.vector.Search(ctx, text)
		return vectorRecords(matches), err
	})
	r.finishCall(span, BackendVector, r.cfg.VectorTimeout, out)
	return out
}

func (r *Router) acquireWorker(ctx context.Context) (func(), error) {
	if err := r.workers.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { r.workers.Release(1) }, nil
}

// finishCall records exactly one ledger entry for the invocation and
// reports it.
func (r *Router) finishCall(span trace.Span, backend Backend, timeout time.Duration, out Outcome) {
	r.ledger.Record(backend, out.Latency, out.succeeded())

	fields := map[string]interface{}{
		"backend":    string(backend),
		"status":     string(out.status()),
		"latency_ms": out.Latency.Milliseconds(),
		"records":    len(out.Records),
	}
	switch out.Kind {
	case OutcomeTimeout:
		fields["timeout"] = timeout.String()
		r.logger.Warn("backend call timed out", out.Err, fields)
	case OutcomeError:
		r.logger.Error("backend call failed", out.Err, fields)
	default:
		r.logger.Debug("backend call completed", nil, fields)
	}

	r.tracer.SetAttributes(span, fields)
	r.tracer.RecordErrorOnSpan(span, out.Err)
	r.observe("backend_call", string(backend), "", out.Latency, out.Err, int64(len(out.Records)),
		map[string]interface{}{"status": string(out.status())})
}

func (r *Router) observe(operation, resource, subResource string, d time.Duration, err error, size int64, metadata map[string]interface{}) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "router",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    d,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

// statusErr turns a degraded envelope into an error for observers.
func statusErr(env Envelope) error {
	switch env.Status {
	case StatusError, StatusTimeout:
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return errors.New(string(env.Status))
	}
	return nil
}
