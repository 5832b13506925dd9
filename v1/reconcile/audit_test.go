package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

type memObjects struct {
	objects map[string]any
	err     error
}

func (m *memObjects) PutJSON(_ context.Context, key string, v any) error {
	if m.err != nil {
		return m.err
	}
	m.objects[key] = v
	return nil
}

func TestAuditKey(t *testing.T) {
	e := AuditEntry{
		Result:    Result{RunID: "run-42"},
		StartedAt: time.Date(2024, 1, 2, 23, 30, 0, 0, time.FixedZone("CET", -3600)),
	}
	assert.Equal(t, "reconcile/2024/01/03/run-42.json", AuditKey(e))
}

func TestObjectSink(t *testing.T) {
	store := &memObjects{objects: map[string]any{}}
	sink := NewObjectSink(store)

	e := AuditEntry{
		Result:    Result{RunID: "abc", Status: StatusSuccess, SyncedCount: 2},
		StartedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	require.NoError(t, sink.Record(context.Background(), e))
	assert.Equal(t, e, store.objects["reconcile/2024/05/06/abc.json"])
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	failing := NewObjectSink(&memObjects{err: errors.New("bucket gone")})
	rec := &recordingSink{}

	err := MultiSink{NewLogSink(logger.NewNop()), failing, rec}.Record(context.Background(), AuditEntry{})
	assert.EqualError(t, err, "bucket gone")
	assert.Len(t, rec.entries, 1)
}

func TestAuditFailureDoesNotChangeResult(t *testing.T) {
	r := newTestReconciler(newMemStore("f1"), newMemVectors(), &stubEmbedder{}, 100).
		WithAuditSink(NewObjectSink(&memObjects{err: errors.New("bucket gone")}))

	res := r.Reconcile(context.Background())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 1, res.SyncedCount)
}

type ctxLogger struct {
	ctxs []context.Context
}

func (l *ctxLogger) InfoCtx(ctx context.Context, _ string, _ error, _ ...map[string]interface{}) {
	l.ctxs = append(l.ctxs, ctx)
}

func TestLogSinkRecordsInsidePassSpan(t *testing.T) {
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "floatrouter-test"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	log := &ctxLogger{}
	r := newTestReconciler(newMemStore("f1"), newMemVectors(), &stubEmbedder{}, 100).
		WithAuditSink(NewLogSink(log)).
		WithTracer(tr)

	res := r.Reconcile(context.Background())
	assert.Equal(t, StatusSuccess, res.Status)

	require.Len(t, log.ctxs, 1)
	assert.True(t, oteltrace.SpanContextFromContext(log.ctxs[0]).IsValid())
}

type jsonObjects map[string][]byte

func (m jsonObjects) PutJSON(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m[key] = b
	return nil
}

func (m jsonObjects) ListKeys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m jsonObjects) GetJSON(_ context.Context, key string, v any) error {
	b, ok := m[key]
	if !ok {
		return errors.New("no such key")
	}
	return json.Unmarshal(b, v)
}

func TestListAudits(t *testing.T) {
	store := jsonObjects{}
	sink := NewObjectSink(store)
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"late", "early"} {
		require.NoError(t, sink.Record(context.Background(), AuditEntry{
			Result:    Result{RunID: id, Status: StatusSuccess, SyncedCount: i},
			StartedAt: day.Add(time.Duration(2-i) * time.Hour),
		}))
	}
	require.NoError(t, sink.Record(context.Background(), AuditEntry{
		Result:    Result{RunID: "next-day"},
		StartedAt: day.Add(30 * time.Hour),
	}))

	entries, err := ListAudits(context.Background(), store, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "early", entries[0].RunID)
	assert.Equal(t, "late", entries[1].RunID)
	assert.Equal(t, StatusSuccess, entries[1].Status)
}
