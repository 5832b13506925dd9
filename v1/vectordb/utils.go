package vectordb

import "time"

// NewFilterSet builds a FilterSet from clauses.
//
//	fs := vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch("region", "North Atlantic")),
//	    vectordb.MustNot(vectordb.NewMatch("platform_number", "2902746")),
//	)
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = &ConditionSet{Conditions: conditions}
	}
}

func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

func NewTimeRange(field string, r TimeRange) *TimeRangeCondition {
	return &TimeRangeCondition{Field: field, Range: r}
}

// ByFloatID matches the points of one float.
func ByFloatID(floatID string) *FilterSet {
	return NewFilterSet(Must(NewMatch(FloatIDKey, floatID)))
}

// Between is an inclusive numeric range.
func Between(field string, lo, hi float64) *NumericRangeCondition {
	return NewNumericRange(field, NumericRange{Gte: &lo, Lte: &hi})
}

// DeployedSince matches deploy dates at or after t.
func DeployedSince(field string, t time.Time) *TimeRangeCondition {
	return NewTimeRange(field, TimeRange{Gte: &t})
}
