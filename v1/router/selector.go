package router

// Thresholds are the success rates the adaptive selector compares against.
// Both comparisons are strict.
type Thresholds struct {
	// NumericSQLSuccess: numeric queries go sql_first above this SQL success rate.
	NumericSQLSuccess float64 `yaml:"numeric_sql_success" mapstructure:"numeric_sql_success"`

	// MixedSuccess: mixed queries fan out when both backends are above it.
	MixedSuccess float64 `yaml:"mixed_success" mapstructure:"mixed_success"`
}

// DefaultThresholds returns 0.6 and 0.5.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NumericSQLSuccess: 0.6,
		MixedSuccess:      0.5,
	}
}

// Select resolves the strategy to execute. An explicit non-adaptive strategy
// wins; otherwise the classification and ledger decide.
//
// A fresh ledger reports 0 for every rate and latency, so on a cold start
// numeric queries fan out and mixed queries go sql_first.
func Select(class Classification, snap LedgerSnapshot, explicit Strategy, th Thresholds) Strategy {
	if explicit != "" && explicit != Adaptive {
		return explicit
	}

	sql, vector := snap.SQL, snap.Vector

	switch class {
	case Numeric:
		if sql.SuccessRate > th.NumericSQLSuccess {
			return SQLFirst
		}
		return Concurrent
	case Semantic:
		return VectorFirst
	default:
		if sql.SuccessRate > th.MixedSuccess && vector.SuccessRate > th.MixedSuccess {
			return Concurrent
		}
		if sql.AvgResponseTime <= vector.AvgResponseTime {
			return SQLFirst
		}
		return VectorFirst
	}
}
