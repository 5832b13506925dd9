package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/floats"
	"github.com/Aleph-Alpha/floatrouter/v1/logger"
)

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
}

func newFakeReader(values ...[]byte) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(values))}
	for i, v := range values {
		r.msgs <- kafka.Message{Offset: int64(i), Value: v}
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) offsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type fakeIngester struct {
	mu       sync.Mutex
	batches  [][]floats.Record
	statuses []dualstore.Status
}

func (f *fakeIngester) Ingest(_ context.Context, records []floats.Record) dualstore.IngestResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, records)

	status := dualstore.StatusSuccess
	if len(f.statuses) > 0 {
		status, f.statuses = f.statuses[0], f.statuses[1:]
	}
	return dualstore.IngestResult{Status: status, Message: string(status)}
}

func (f *fakeIngester) calls() [][]floats.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]floats.Record(nil), f.batches...)
}

func encode(t *testing.T, id string) []byte {
	t.Helper()
	b, err := json.Marshal(floats.Record{Float: floats.Float{FloatID: id}})
	require.NoError(t, err)
	return b
}

func newTestConsumer(r MessageReader, ing Ingester, batchSize int, timeout time.Duration) *Consumer {
	cfg := DefaultConfig()
	cfg.BatchSize = batchSize
	cfg.BatchTimeout = timeout
	c := NewConsumer(cfg, r, ing, logger.NewNop())
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func runUntil(t *testing.T, c *Consumer, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestConsumerBatchesBySize(t *testing.T) {
	reader := newFakeReader(encode(t, "a"), encode(t, "b"), encode(t, "c"), encode(t, "d"))
	ing := &fakeIngester{}
	c := newTestConsumer(reader, ing, 2, time.Hour)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 4 })

	batches := ing.calls()
	require.Len(t, batches, 2)
	assert.Equal(t, "a", batches[0][0].FloatID)
	assert.Equal(t, "d", batches[1][1].FloatID)
}

func TestConsumerFlushesOnTimeout(t *testing.T) {
	reader := newFakeReader(encode(t, "a"))
	ing := &fakeIngester{}
	c := newTestConsumer(reader, ing, 100, 20*time.Millisecond)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 1 })
	require.Len(t, ing.calls(), 1)
}

func TestConsumerCommitsMalformedMessages(t *testing.T) {
	reader := newFakeReader([]byte("not json"), []byte(`{"float_id":""}`), encode(t, "ok"))
	ing := &fakeIngester{}
	c := newTestConsumer(reader, ing, 3, time.Hour)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 3 })

	batches := ing.calls()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, "ok", batches[0][0].FloatID)
}

func TestConsumerSkipsIngestForAllMalformedBatch(t *testing.T) {
	reader := newFakeReader([]byte("{"))
	ing := &fakeIngester{}
	c := newTestConsumer(reader, ing, 1, time.Hour)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 1 })
	assert.Empty(t, ing.calls())
}

func TestConsumerRetriesStructuredFailure(t *testing.T) {
	reader := newFakeReader(encode(t, "a"))
	ing := &fakeIngester{statuses: []dualstore.Status{dualstore.StatusError, dualstore.StatusError, dualstore.StatusSuccess}}
	c := newTestConsumer(reader, ing, 1, time.Hour)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 1 })
	assert.Len(t, ing.calls(), 3)
}

func TestConsumerCommitsPartialBatches(t *testing.T) {
	reader := newFakeReader(encode(t, "a"))
	ing := &fakeIngester{statuses: []dualstore.Status{dualstore.StatusPartial}}
	c := newTestConsumer(reader, ing, 1, time.Hour)

	runUntil(t, c, func() bool { return len(reader.offsets()) == 1 })
	assert.Len(t, ing.calls(), 1)
}

func TestConsumerDoesNotCommitOnShutdown(t *testing.T) {
	reader := newFakeReader()
	ing := &fakeIngester{statuses: []dualstore.Status{dualstore.StatusError}}
	c := newTestConsumer(reader, ing, 1, time.Hour)
	c.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	reader.msgs <- kafka.Message{Offset: 7, Value: encode(t, "a")}
	require.Eventually(t, func() bool { return len(ing.calls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, reader.offsets())
}
