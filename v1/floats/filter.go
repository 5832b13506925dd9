package floats

import (
	"time"

	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

// Filter narrows vector searches by the metadata in Payload. Zero fields
// are ignored; a zero Filter matches everything.
type Filter struct {
	Regions        []string
	ExcludeRegions []string

	// Platforms matches floats on any of the platform numbers.
	Platforms []string

	LatMin, LatMax *float64
	LonMin, LonMax *float64

	DeployedSince *time.Time
}

// IsZero reports whether f has no condition at all.
func (f Filter) IsZero() bool {
	return len(f.Regions) == 0 && len(f.ExcludeRegions) == 0 && len(f.Platforms) == 0 &&
		f.LatMin == nil && f.LatMax == nil && f.LonMin == nil && f.LonMax == nil &&
		f.DeployedSince == nil
}

// FilterSet converts f to the vector store filter. It returns nil for a
// zero Filter.
func (f Filter) FilterSet() *vectordb.FilterSet {
	if f.IsZero() {
		return nil
	}

	var must []vectordb.FilterCondition
	switch len(f.Regions) {
	case 0:
	case 1:
		must = append(must, vectordb.NewMatch("region", f.Regions[0]))
	default:
		must = append(must, vectordb.NewMatchAny("region", toAny(f.Regions)...))
	}
	if c := numericRange("latitude", f.LatMin, f.LatMax); c != nil {
		must = append(must, c)
	}
	if c := numericRange("longitude", f.LonMin, f.LonMax); c != nil {
		must = append(must, c)
	}
	if f.DeployedSince != nil {
		must = append(must, vectordb.DeployedSince("deploy_date", *f.DeployedSince))
	}

	var clauses []func(*vectordb.FilterSet)
	if len(must) > 0 {
		clauses = append(clauses, vectordb.Must(must...))
	}
	if len(f.Platforms) > 0 {
		should := make([]vectordb.FilterCondition, 0, len(f.Platforms))
		for _, p := range f.Platforms {
			should = append(should, vectordb.NewMatch("platform_number", p))
		}
		clauses = append(clauses, vectordb.Should(should...))
	}
	if len(f.ExcludeRegions) > 0 {
		clauses = append(clauses, vectordb.MustNot(vectordb.NewMatchAny("region", toAny(f.ExcludeRegions)...)))
	}
	return vectordb.NewFilterSet(clauses...)
}

func numericRange(field string, lo, hi *float64) vectordb.FilterCondition {
	switch {
	case lo != nil && hi != nil:
		return vectordb.Between(field, *lo, *hi)
	case lo != nil:
		return vectordb.NewNumericRange(field, vectordb.NumericRange{Gte: lo})
	case hi != nil:
		return vectordb.NewNumericRange(field, vectordb.NumericRange{Lte: hi})
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
