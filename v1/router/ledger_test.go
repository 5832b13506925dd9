package router

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEmptySnapshot(t *testing.T) {
	l := NewLedger()
	l.Record(BackendSQL, time.Second, false)
	l.RecordConcurrent(time.Second)
	l.Reset()

	snap := l.Snapshot()
	assert.Equal(t, LedgerSnapshot{}, snap)
	assert.Zero(t, snap.SQL.SuccessRate)
	assert.Zero(t, snap.Vector.AvgResponseTime)
}

func TestLedgerDerivedMetrics(t *testing.T) {
	l := NewLedger()
	l.Record(BackendVector, 100*time.Millisecond, true)
	l.Record(BackendVector, 300*time.Millisecond, true)
	l.Record(BackendVector, 200*time.Millisecond, false)
	l.Record(BackendVector, 400*time.Millisecond, true)
	l.Record(Backend("chroma"), time.Hour, true)

	snap := l.Snapshot()
	assert.EqualValues(t, 4, snap.Vector.TotalQueries)
	assert.EqualValues(t, 1, snap.Vector.Failures)
	assert.InDelta(t, 0.75, snap.Vector.SuccessRate, 1e-9)
	assert.InDelta(t, 0.25, snap.Vector.AvgResponseTime, 1e-9)
	assert.Equal(t, BackendStats{}, snap.SQL)
}

func TestLedgerConcurrentWriters(t *testing.T) {
	l := NewLedger()

	const writers = 200
	var want time.Duration
	var wg sync.WaitGroup
	for i := 1; i <= writers; i++ {
		latency := time.Duration(i) * time.Millisecond
		want += latency
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(BackendSQL, latency, latency%3 != 0)
		}()
	}
	wg.Wait()

	snap := l.Snapshot()
	assert.EqualValues(t, writers, snap.SQL.TotalQueries)
	assert.Equal(t, want, snap.SQL.CumulativeLatency)
	assert.EqualValues(t, writers/3, snap.SQL.Failures)
}

func TestLedgerSnapshotNeverSeesPartialUpdate(t *testing.T) {
	l := NewLedger()
	const latency = 7 * time.Millisecond

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					l.Record(BackendSQL, latency, true)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		s := l.Snapshot().SQL
		require.Equal(t, time.Duration(s.TotalQueries)*latency, s.CumulativeLatency)
	}
	close(stop)
	wg.Wait()
}
