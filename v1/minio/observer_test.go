package minio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func (r *recordingObserver) operations() []observability.OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]observability.OperationContext(nil), r.ops...)
}

func TestObserveOperation(t *testing.T) {
	obs := &recordingObserver{}
	c := (&MinioClient{cfg: Config{Connection: ConnectionConfig{BucketName: "audit"}}}).WithObserver(obs)

	boom := errors.New("boom")
	c.observeOperation("put", "", "reconcile/2024/01/02/run.json", 15*time.Millisecond, boom, 42, nil)

	ops := obs.operations()
	require.Len(t, ops, 1)
	assert.Equal(t, "minio", ops[0].Component)
	assert.Equal(t, "put", ops[0].Operation)
	assert.Equal(t, "audit", ops[0].Resource)
	assert.Equal(t, "reconcile/2024/01/02/run.json", ops[0].SubResource)
	assert.Equal(t, int64(42), ops[0].Size)
	assert.ErrorIs(t, ops[0].Error, boom)
}

func TestObserveOperationWithoutObserver(t *testing.T) {
	var c *MinioClient
	assert.NotPanics(t, func() {
		c.observeOperation("get", "", "k", time.Millisecond, nil, 0, nil)
	})

	c = &MinioClient{}
	assert.NotPanics(t, func() {
		c.observeOperation("get", "", "k", time.Millisecond, nil, 0, nil)
	})
}

func TestConnectRequiresEndpoint(t *testing.T) {
	_, err := connectToMinio(Config{})
	assert.Error(t, err)
}
