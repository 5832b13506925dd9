package vectordb

import "time"

// FilterCondition is implemented by every condition type below.
type FilterCondition interface {
	IsFilterCondition()
}

// FilterSet combines condition groups: all of Must, at least one of Should,
// none of MustNot.
type FilterSet struct {
	Must    *ConditionSet `json:"must,omitempty"`
	Should  *ConditionSet `json:"should,omitempty"`
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// MatchCondition is exact equality on a payload field.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition is membership in a value list.
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// NumericRange bounds are optional; nil means unbounded.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lt  *float64 `json:"lessThan,omitempty"`
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`
}

type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"range"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

// TimeRange bounds are optional; nil means unbounded.
type TimeRange struct {
	Gt  *time.Time `json:"after,omitempty"`
	Gte *time.Time `json:"atOrAfter,omitempty"`
	Lt  *time.Time `json:"before,omitempty"`
	Lte *time.Time `json:"atOrBefore,omitempty"`
}

type TimeRangeCondition struct {
	Field string    `json:"field"`
	Range TimeRange `json:"range"`
}

func (c *TimeRangeCondition) IsFilterCondition() {}
