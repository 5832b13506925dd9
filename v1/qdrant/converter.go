package qdrant

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// pointNamespace derives deterministic UUIDs for ids Qdrant cannot take as-is.
var pointNamespace = uuid.MustParse("5b0f6b1e-7c55-4b55-9b1f-2b8f0c7a4d11")

// ── Point IDs ────────────────────────────────────────────────────────────────

// toPointID maps a string id onto a Qdrant id: UUIDs and unsigned integers
// pass through, anything else becomes a name-based UUID.
func toPointID(id string) *qdrant.PointId {
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(id)
	}
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(uuid.NewSHA1(pointNamespace, []byte(id)).String())
}

func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

func toPoints(inputs []vectordb.EmbeddingInput) ([]*qdrant.PointStruct, error) {
	points := make([]*qdrant.PointStruct, 0, len(inputs))
	for _, in := range inputs {
		if len(in.Vector) == 0 {
			return nil, fmt.Errorf("point %q has an empty vector", in.ID)
		}
		payload, err := qdrant.TryValueMap(in.Payload)
		if err != nil {
			return nil, fmt.Errorf("point %q payload: %w", in.ID, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      toPointID(in.ID),
			Vectors: qdrant.NewVectors(in.Vector...),
			Payload: payload,
		})
	}
	return points, nil
}

// ── Filter Conversion ────────────────────────────────────────────────────────

func convertFilterSet(filters *vectordb.FilterSet) *qdrant.Filter {
	if filters == nil {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    convertConditionSet(filters.Must),
		Should:  convertConditionSet(filters.Should),
		MustNot: convertConditionSet(filters.MustNot),
	}
	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return filter
}

func convertConditionSet(cs *vectordb.ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		if cond := convertCondition(c); cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions
}

func convertCondition(c vectordb.FilterCondition) *qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatch(cond)
	case *vectordb.MatchAnyCondition:
		return convertMatchAny(cond)
	case *vectordb.NumericRangeCondition:
		return convertNumericRange(cond)
	case *vectordb.TimeRangeCondition:
		return convertTimeRange(cond)
	default:
		return nil
	}
}

func convertMatch(c *vectordb.MatchCondition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case float64:
		// JSON numbers decode as float64
		return qdrant.NewMatchInt(c.Field, int64(v))
	default:
		return nil
	}
}

func convertMatchAny(c *vectordb.MatchAnyCondition) *qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}

	switch c.Values[0].(type) {
	case string:
		strs := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		return qdrant.NewMatchKeywords(c.Field, strs...)
	case int, int64, float64:
		ints := make([]int64, 0, len(c.Values))
		for _, v := range c.Values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			case float64:
				ints = append(ints, int64(n))
			}
		}
		return qdrant.NewMatchInts(c.Field, ints...)
	}
	return nil
}

func convertNumericRange(c *vectordb.NumericRangeCondition) *qdrant.Condition {
	r := &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	}
	if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
		return nil
	}
	return qdrant.NewRange(c.Field, r)
}

func convertTimeRange(c *vectordb.TimeRangeCondition) *qdrant.Condition {
	r := &qdrant.DatetimeRange{
		Gt:  toTimestamp(c.Range.Gt),
		Gte: toTimestamp(c.Range.Gte),
		Lt:  toTimestamp(c.Range.Lt),
		Lte: toTimestamp(c.Range.Lte),
	}
	if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
		return nil
	}
	return qdrant.NewDatetimeRange(c.Field, r)
}

func toTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

// ── Result Conversion ────────────────────────────────────────────────────────

func parseScoredPoints(resp []*qdrant.ScoredPoint) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.GetId())
		if err != nil {
			return nil, err
		}
		results = append(results, vectordb.SearchResult{
			ID:      id,
			Score:   r.GetScore(),
			Payload: convertPayload(r.GetPayload()),
		})
	}
	return results, nil
}

// parseRetrievedPoints converts scroll results; they carry no score.
func parseRetrievedPoints(resp []*qdrant.RetrievedPoint) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.GetId())
		if err != nil {
			return nil, err
		}
		results = append(results, vectordb.SearchResult{
			ID:      id,
			Payload: convertPayload(r.GetPayload()),
		})
	}
	return results, nil
}

func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}
