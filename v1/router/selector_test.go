package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapshotWith(sqlRate, sqlAvg, vecRate, vecAvg float64) LedgerSnapshot {
	return LedgerSnapshot{
		SQL:    BackendStats{TotalQueries: 10, SuccessRate: sqlRate, AvgResponseTime: sqlAvg},
		Vector: BackendStats{TotalQueries: 10, SuccessRate: vecRate, AvgResponseTime: vecAvg},
	}
}

func TestSelect(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		class    Classification
		snap     LedgerSnapshot
		explicit Strategy
		want     Strategy
	}{
		{"explicit wins", Semantic, snapshotWith(1, 0, 1, 0), Concurrent, Concurrent},
		{"explicit sql_first on semantic", Semantic, LedgerSnapshot{}, SQLFirst, SQLFirst},
		{"numeric healthy sql", Numeric, snapshotWith(0.61, 1, 0, 0), Adaptive, SQLFirst},
		{"numeric boundary is strict", Numeric, snapshotWith(0.6, 1, 0, 0), Adaptive, Concurrent},
		{"numeric cold start", Numeric, LedgerSnapshot{}, Adaptive, Concurrent},
		{"semantic", Semantic, snapshotWith(1, 0, 0, 0), Adaptive, VectorFirst},
		{"empty strategy is adaptive", Semantic, LedgerSnapshot{}, "", VectorFirst},
		{"mixed both healthy", Mixed, snapshotWith(0.9, 1, 0.8, 2), Adaptive, Concurrent},
		{"mixed boundary is strict", Mixed, snapshotWith(0.5, 3, 0.9, 1), Adaptive, VectorFirst},
		{"mixed sql faster", Mixed, snapshotWith(0.2, 0.5, 0.9, 1), Adaptive, SQLFirst},
		{"mixed vector faster", Mixed, snapshotWith(0.2, 2, 0.9, 1), Adaptive, VectorFirst},
		{"mixed cold start", Mixed, LedgerSnapshot{}, Adaptive, SQLFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.class, tt.snap, tt.explicit, th))
		})
	}
}

func TestSelectFromLedgerBoundary(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 6; i++ {
		l.Record(BackendSQL, 0, true)
	}
	for i := 0; i < 4; i++ {
		l.Record(BackendSQL, 0, false)
	}
	assert.InDelta(t, 0.6, l.Snapshot().SQL.SuccessRate, 1e-12)
	assert.Equal(t, Concurrent, Select(Numeric, l.Snapshot(), Adaptive, DefaultThresholds()))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	assert.NoError(t, err)
	assert.Equal(t, Adaptive, s)

	s, err = ParseStrategy("vector_first")
	assert.NoError(t, err)
	assert.Equal(t, VectorFirst, s)

	_, err = ParseStrategy("round_robin")
	assert.Error(t, err)
}
