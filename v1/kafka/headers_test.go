package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type ctxIngester struct {
	mu  sync.Mutex
	ctx context.Context
}

func (c *ctxIngester) Ingest(ctx context.Context, _ []floats.Record) dualstore.IngestResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
	return dualstore.IngestResult{Status: dualstore.StatusSuccess}
}

func (c *ctxIngester) seen() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

func TestTraceContextTravelsThroughHeaders(t *testing.T) {
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "floatrouter-test"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	w := &fakeWriter{}
	producer := &KafkaClient{cfg: DefaultConfig(), logger: logger.NewNop(), writer: w}
	producer.WithPropagator(tr)

	ctx, span := tr.StartSpan(context.Background(), "ingest.publish")
	require.NoError(t, producer.Publish(ctx, floats.Record{Float: floats.Float{FloatID: "5904471"}}))
	span.End()

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "5904471", string(w.msgs[0].Key))
	assert.NotEmpty(t, w.msgs[0].Headers)

	reader := &fakeReader{msgs: make(chan kafka.Message, 1)}
	reader.msgs <- w.msgs[0]
	ing := &ctxIngester{}
	c := newTestConsumer(reader, ing, 1, time.Hour).WithPropagator(tr)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 1 })

	got := trace.SpanContextFromContext(ing.seen())
	assert.True(t, got.IsRemote())
	assert.Equal(t, span.SpanContext().TraceID(), got.TraceID())
}

func TestPublishWithoutPropagatorSendsNoHeaders(t *testing.T) {
	w := &fakeWriter{}
	producer := &KafkaClient{cfg: DefaultConfig(), logger: logger.NewNop(), writer: w}

	require.NoError(t, producer.Publish(context.Background(),
		floats.Record{Float: floats.Float{FloatID: "a"}},
		floats.Record{Float: floats.Float{FloatID: "b"}},
	))
	require.Len(t, w.msgs, 2)
	assert.Empty(t, w.msgs[0].Headers)
	assert.Equal(t, "b", string(w.msgs[1].Key))
}

func TestExtractContextWithoutHeaders(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, extractContext(ctx, nil, []kafka.Message{{}}))
}
