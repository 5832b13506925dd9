package router

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

type routerFixture struct {
	router     *Router
	structured *MockStructuredBackend
	vector     *MockVectorBackend
	ledger     *Ledger
}

func newFixture(t *testing.T) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := routerFixture{
		structured: NewMockStructuredBackend(ctrl),
		vector:     NewMockVectorBackend(ctrl),
		ledger:     NewLedger(),
	}
	cfg := DefaultConfig()
	cfg.SQLTimeout = 80 * time.Millisecond
	cfg.VectorTimeout = 80 * time.Millisecond
	f.router = NewRouter(cfg, f.structured, f.vector, f.ledger, logger.NewNop())
	return f
}

var (
	rowA   = StructuredRow{"float_id": "2902746", "latitude": 45.1}
	matchA = VectorMatch{ID: "p1", Distance: 0.25, Similarity: 0.8, Metadata: map[string]any{"float_id": "5904321"}}
)

// blockUntilCancelled simulates a backend that never answers on its own.
func blockUntilCancelled(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSQLFirstSuccess(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), "floats near 45 degrees").Return([]StructuredRow{rowA}, nil)

	env := f.router.Route(context.Background(), Query{Text: "floats near 45 degrees", Strategy: SQLFirst})

	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, SourceSQL, env.Source)
	assert.False(t, env.FallbackUsed)
	require.Len(t, env.Results, 1)
	assert.Equal(t, 1.0, env.Results[0].Score)
	assert.Equal(t, Numeric, env.QueryType)
	assert.Equal(t, SQLFirst, env.StrategyUsed)
	assert.EqualValues(t, 1, env.OptimizerStats.SQL.TotalQueries)
	assert.Zero(t, env.OptimizerStats.Vector.TotalQueries)
}

func TestSQLFirstEmptyFallsBack(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Return([]StructuredRow{}, nil),
		f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{matchA}, nil),
	)

	env := f.router.Route(context.Background(), Query{Text: "salinity below 34 psu", Strategy: SQLFirst})

	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, SourceVectorFallback, env.Source)
	assert.True(t, env.FallbackUsed)
	assert.NotEmpty(t, env.SQLError)
	require.Len(t, env.Results, 1)
	assert.Equal(t, SourceVector, env.Results[0].Source)
	assert.Equal(t, 0.8, env.Results[0].Score)

	snap := f.ledger.Snapshot()
	assert.EqualValues(t, 1, snap.SQL.TotalQueries)
	assert.EqualValues(t, 0, snap.SQL.Failures)
	assert.EqualValues(t, 1, snap.Vector.TotalQueries)
}

func TestSQLFirstTimeoutFallsBack(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, text string) ([]StructuredRow, error) {
			return nil, blockUntilCancelled(ctx, text)
		})
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{matchA}, nil)

	env := f.router.Route(context.Background(), Query{Text: "depth between 100 and 200", Strategy: SQLFirst})

	assert.Equal(t, StatusSuccess, env.Status)
	assert.True(t, env.FallbackUsed)
	assert.Contains(t, env.SQLError, "timed out")
	assert.EqualValues(t, 1, f.ledger.Snapshot().SQL.Failures)
}

func TestSQLFirstBothFail(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, errors.New("syntax error at or near"))
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, errors.New("qdrant unavailable"))

	env := f.router.Route(context.Background(), Query{Text: "temperature", Strategy: SQLFirst})

	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, SourceVectorFallback, env.Source)
	assert.Equal(t, "syntax error at or near", env.SQLError)
	assert.Equal(t, "qdrant unavailable", env.VectorError)
	assert.Empty(t, env.Results)
}

func TestVectorFirstDoesNotFallBack(t *testing.T) {
	f := newFixture(t)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, errors.New("rate limited"))
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)

	env := f.router.Route(context.Background(), Query{Text: "deep water formation", Strategy: VectorFirst})

	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, SourceVector, env.Source)
	assert.False(t, env.FallbackUsed)
	assert.Equal(t, "rate limited", env.VectorError)
	assert.EqualValues(t, 0, f.ledger.Snapshot().SQL.TotalQueries)
}

func TestVectorFirstTimeout(t *testing.T) {
	f := newFixture(t)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, text string) ([]VectorMatch, error) {
			return nil, blockUntilCancelled(ctx, text)
		})

	env := f.router.Route(context.Background(), Query{Text: "describe the mission", Strategy: VectorFirst})

	assert.Equal(t, StatusTimeout, env.Status)
	assert.EqualValues(t, 1, f.ledger.Snapshot().Vector.Failures)
}

func TestConcurrentStructuredFails(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{matchA, matchA}, nil)

	env := f.router.Route(context.Background(), Query{Text: "describe floats near 10 degrees", Strategy: Concurrent})

	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, SourceConcurrent, env.Source)
	assert.Equal(t, StatusError, env.SQLStatus)
	require.Len(t, env.Results, 2)
	for _, r := range env.Results {
		assert.Equal(t, SourceVector, r.Source)
	}
}

func TestConcurrentMergesBoth(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Return([]StructuredRow{rowA}, nil)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{matchA}, nil)

	env := f.router.Route(context.Background(), Query{Text: "q", Strategy: Concurrent})

	require.Len(t, env.Results, 2)
	sources := map[Source]float64{}
	for _, r := range env.Results {
		sources[r.Source] = r.Score
	}
	assert.Equal(t, 1.0, sources[SourceSQL])
	assert.Equal(t, 0.8, sources[SourceVector])

	snap := f.ledger.Snapshot()
	assert.EqualValues(t, 1, snap.SQL.TotalQueries)
	assert.EqualValues(t, 1, snap.Vector.TotalQueries)
	assert.EqualValues(t, 1, snap.Concurrent.TotalQueries)
}

func TestConcurrentBothFail(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, text string) ([]StructuredRow, error) {
			return nil, blockUntilCancelled(ctx, text)
		})
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, errors.New("embedding quota exhausted"))

	env := f.router.Route(context.Background(), Query{Text: "q", Strategy: Concurrent})

	assert.Equal(t, StatusNoResults, env.Status)
	assert.Empty(t, env.Results)
	assert.Contains(t, env.SQLError, "timed out")
	assert.Equal(t, "embedding quota exhausted", env.VectorError)
	assert.Equal(t, StatusTimeout, env.SQLStatus)
	assert.Equal(t, StatusError, env.VectorStatus)
}

func TestConcurrentStartsBothCalls(t *testing.T) {
	f := newFixture(t)

	var started sync.WaitGroup
	started.Add(2)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) ([]StructuredRow, error) {
			started.Done()
			started.Wait()
			return []StructuredRow{rowA}, nil
		})
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) ([]VectorMatch, error) {
			started.Done()
			started.Wait()
			return []VectorMatch{matchA}, nil
		})

	env := f.router.Route(context.Background(), Query{Text: "q", Strategy: Concurrent})
	assert.Equal(t, StatusSuccess, env.Status)
	assert.Len(t, env.Results, 2)
}

func TestAdapterPanicIsReported(t *testing.T) {
	f := newFixture(t)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string) ([]VectorMatch, error) {
			panic("nil map")
		})

	env := f.router.Route(context.Background(), Query{Text: "similar floats", Strategy: VectorFirst})

	assert.Equal(t, StatusError, env.Status)
	assert.Contains(t, env.VectorError, "nil map")
	assert.EqualValues(t, 1, f.ledger.Snapshot().Vector.Failures)
}

func TestAdaptiveResolution(t *testing.T) {
	f := newFixture(t)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{}, nil)

	env := f.router.Route(context.Background(), Query{Text: "floats studying deep water formation"})

	assert.Equal(t, Semantic, env.QueryType)
	assert.Equal(t, VectorFirst, env.StrategyUsed)
	assert.Equal(t, StatusSuccess, env.Status)
	assert.NotNil(t, env.Results)
}

func TestAdaptiveNumericColdStartFansOut(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Return([]StructuredRow{rowA}, nil)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil)

	env := f.router.Route(context.Background(), Query{Text: "temperature at 500 m"})

	assert.Equal(t, Concurrent, env.StrategyUsed)
	assert.Equal(t, SourceConcurrent, env.Source)
}

func TestUnknownStrategy(t *testing.T) {
	f := newFixture(t)

	env := f.router.Route(context.Background(), Query{Text: "q", Strategy: "round_robin"})

	assert.Equal(t, StatusError, env.Status)
	assert.Contains(t, env.Message, "round_robin")
}

func TestResetStats(t *testing.T) {
	f := newFixture(t)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{matchA}, nil)
	f.router.Route(context.Background(), Query{Text: "q", Strategy: VectorFirst})
	require.EqualValues(t, 1, f.router.PerformanceSummary().Vector.TotalQueries)

	f.router.ResetStats()

	assert.Equal(t, LedgerSnapshot{}, f.router.PerformanceSummary())
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (o *recordingObserver) ObserveOperation(c observability.OperationContext) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, c)
}

func TestObserverSeesRouteAndCalls(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}
	f.router.WithObserver(obs)
	f.vector.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]VectorMatch{matchA}, nil)

	f.router.Route(context.Background(), Query{Text: "q", Strategy: VectorFirst})

	require.Len(t, obs.ops, 2)
	assert.Equal(t, "backend_call", obs.ops[0].Operation)
	assert.Equal(t, "vector", obs.ops[0].Resource)
	assert.Equal(t, "route", obs.ops[1].Operation)
	assert.Equal(t, "vector_first", obs.ops[1].Resource)
}

func TestEnvelopeJSON(t *testing.T) {
	f := newFixture(t)
	f.structured.EXPECT().Execute(gomock.Any(), gomock.Any()).Return([]StructuredRow{rowA}, nil)

	env := f.router.Route(context.Background(), Query{Text: "q", Strategy: SQLFirst})
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, "sql", decoded["source"])
	assert.Contains(t, decoded, "optimizer_stats")
	stats := decoded["optimizer_stats"].(map[string]any)
	assert.Contains(t, stats, "concurrent")
	result := decoded["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "2902746", result["data"].(map[string]any)["float_id"])
}
