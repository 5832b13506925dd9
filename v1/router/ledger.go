package router

import (
	"sync"
	"time"
)

// ledgerEntry is guarded by its own mutex so that count, latency and
// failures always move together.
type ledgerEntry struct {
	mu         sync.Mutex
	count      int64
	failures   int64
	cumulative time.Duration
}

func (e *ledgerEntry) add(latency time.Duration, failed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count++
	e.cumulative += latency
	if failed {
		e.failures++
	}
}

func (e *ledgerEntry) read() (count, failures int64, cumulative time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count, e.failures, e.cumulative
}

func (e *ledgerEntry) zero() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count, e.failures, e.cumulative = 0, 0, 0
}

// Ledger keeps in-memory invocation statistics for both backends and for the
// concurrent strategy. It starts at zero, is never persisted and only ever
// grows until Reset.
type Ledger struct {
	sql        ledgerEntry
	vector     ledgerEntry
	concurrent ledgerEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record adds one invocation of backend. Unknown backends are ignored.
func (l *Ledger) Record(backend Backend, latency time.Duration, succeeded bool) {
	if e := l.entry(backend); e != nil {
		e.add(latency, !succeeded)
	}
}

// RecordConcurrent adds one execution of the concurrent strategy.
func (l *Ledger) RecordConcurrent(latency time.Duration) {
	l.concurrent.add(latency, false)
}

// Reset zeroes every entry.
func (l *Ledger) Reset() {
	l.sql.zero()
	l.vector.zero()
	l.concurrent.zero()
}

// Snapshot returns derived metrics. Each entry is read atomically; entries
// are not read together, so a snapshot taken during heavy traffic may mix
// entry states from slightly different instants.
func (l *Ledger) Snapshot() LedgerSnapshot {
	cCount, _, cCum := l.concurrent.read()
	return LedgerSnapshot{
		SQL:    backendStats(&l.sql),
		Vector: backendStats(&l.vector),
		Concurrent: ConcurrentStats{
			TotalQueries:      cCount,
			AvgResponseTime:   average(cCum, cCount),
			CumulativeLatency: cCum,
		},
	}
}

func (l *Ledger) entry(b Backend) *ledgerEntry {
	switch b {
	case BackendSQL:
		return &l.sql
	case BackendVector:
		return &l.vector
	}
	return nil
}

// BackendStats are the derived metrics for one backend.
type BackendStats struct {
	TotalQueries      int64         `json:"total_queries"`
	Failures          int64         `json:"failures"`
	AvgResponseTime   float64       `json:"avg_response_time"`
	SuccessRate       float64       `json:"success_rate"`
	CumulativeLatency time.Duration `json:"-"`
}

// ConcurrentStats track the concurrent strategy as a whole.
type ConcurrentStats struct {
	TotalQueries      int64         `json:"total_queries"`
	AvgResponseTime   float64       `json:"avg_response_time"`
	CumulativeLatency time.Duration `json:"-"`
}

// LedgerSnapshot is a point-in-time copy of the ledger.
type LedgerSnapshot struct {
	SQL        BackendStats    `json:"sql"`
	Vector     BackendStats    `json:"vector"`
	Concurrent ConcurrentStats `json:"concurrent"`
}

// Backend returns the stats of b, zero for unknown backends.
func (s LedgerSnapshot) Backend(b Backend) BackendStats {
	switch b {
	case BackendSQL:
		return s.SQL
	case BackendVector:
		return s.Vector
	}
	return BackendStats{}
}

func backendStats(e *ledgerEntry) BackendStats {
	count, failures, cum := e.read()
	stats := BackendStats{
		TotalQueries:      count,
		Failures:          failures,
		AvgResponseTime:   average(cum, count),
		CumulativeLatency: cum,
	}
	if count > 0 {
		stats.SuccessRate = float64(count-failures) / float64(count)
	}
	return stats
}

// average is in seconds, 0 for an empty entry.
func average(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return total.Seconds() / float64(count)
}
