package router

import (
	"fmt"
	"time"
)

// Classification is the lexical category of a query.
type Classification string

const (
	Numeric  Classification = "numeric"
	Semantic Classification = "semantic"
	Mixed    Classification = "mixed"
)

// Strategy names an execution plan. Adaptive is resolved by Select into one
// of the other three and is never executed itself.
type Strategy string

const (
	SQLFirst    Strategy = "sql_first"
	VectorFirst Strategy = "vector_first"
	Concurrent  Strategy = "concurrent"
	Adaptive    Strategy = "adaptive"
)

// ParseStrategy maps user input to a Strategy. The empty string is Adaptive.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case "":
		return Adaptive, nil
	case SQLFirst, VectorFirst, Concurrent, Adaptive:
		return st, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

func (s Strategy) valid() bool {
	switch s {
	case SQLFirst, VectorFirst, Concurrent, Adaptive:
		return true
	}
	return false
}

// Status is the overall outcome reported in an Envelope.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusPartial   Status = "partial"
	StatusTimeout   Status = "timeout"
	StatusError     Status = "error"
	StatusNoResults Status = "no_results"
)

// Source says which backend produced the results of an Envelope, or, inside a
// ScoredRecord, which backend produced that record.
type Source string

const (
	SourceSQL            Source = "sql"
	SourceVector         Source = "vector"
	SourceSQLFallback    Source = "sql_fallback"
	SourceVectorFallback Source = "vector_fallback"
	SourceConcurrent     Source = "concurrent"
)

// Backend identifies one of the two stores in the ledger.
type Backend string

const (
	BackendSQL    Backend = "sql"
	BackendVector Backend = "vector"
)

// Query is a routing request.
type Query struct {
	Text string `json:"query"`

	// Strategy defaults to Adaptive when empty.
	Strategy Strategy `json:"strategy,omitempty"`
}

// Record is a result row. It is implemented only by StructuredRow and
// VectorMatch.
type Record interface {
	isRecord()
}

// StructuredRow is one row returned by the relational backend, keyed by
// column name.
type StructuredRow map[string]any

func (StructuredRow) isRecord() {}

// VectorMatch is one nearest neighbour returned by the vector backend.
type VectorMatch struct {
	ID         string         `json:"id"`
	Distance   float64        `json:"distance"`
	Similarity float64        `json:"similarity_score"`
	Metadata   map[string]any `json:"metadata"`
	Document   string         `json:"document,omitempty"`
}

func (VectorMatch) isRecord() {}

// ScoredRecord is a Record tagged with its origin and relevance. Structured
// rows always score 1.0.
type ScoredRecord struct {
	Source Source  `json:"source"`
	Score  float64 `json:"score"`
	Data   Record  `json:"data"`
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeTimeout
	OutcomeError
)

// Outcome is the result of one bounded backend invocation. Records is set
// only for OutcomeSuccess, Err only for the other two kinds.
type Outcome struct {
	Kind    OutcomeKind
	Records []Record
	Latency time.Duration
	Err     error
}

func (o Outcome) succeeded() bool { return o.Kind == OutcomeSuccess }

func (o Outcome) status() Status {
	switch o.Kind {
	case OutcomeSuccess:
		return StatusSuccess
	case OutcomeTimeout:
		return StatusTimeout
	default:
		return StatusError
	}
}

func (o Outcome) message() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return ""
}

// Envelope is the uniform response of Router.Route. Every failure is
// expressed through Status and the diagnostic fields.
type Envelope struct {
	Status         Status         `json:"status"`
	Query          string         `json:"query"`
	QueryType      Classification `json:"query_type"`
	StrategyUsed   Strategy       `json:"strategy_used"`
	Source         Source         `json:"source,omitempty"`
	Results        []ScoredRecord `json:"results"`
	FallbackUsed   bool           `json:"fallback_used"`
	TotalTime      float64        `json:"total_time"`
	SQLStatus      Status         `json:"sql_status,omitempty"`
	VectorStatus   Status         `json:"vector_status,omitempty"`
	SQLError       string         `json:"sql_error,omitempty"`
	VectorError    string         `json:"vector_error,omitempty"`
	Message        string         `json:"message,omitempty"`
	OptimizerStats LedgerSnapshot `json:"optimizer_stats"`
}
