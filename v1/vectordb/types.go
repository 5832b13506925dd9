package vectordb

// Payload keys shared by every writer and reader of the float collection.
const (
	// FloatIDKey holds the float identifier; reconciliation looks points up by it.
	FloatIDKey = "float_id"

	// DocumentKey holds the text the point's vector was computed from.
	DocumentKey = "document"
)

// SearchRequest is one similarity query.
type SearchRequest struct {
	CollectionName string `json:"collectionName"`

	Vector []float32 `json:"vector"`

	TopK int `json:"maxResults"`

	// Filters narrows candidates before ranking. Optional.
	Filters *FilterSet `json:"filters,omitempty"`
}

// SearchResult is one hit. Score is the store's native similarity, cosine
// for the float collection.
type SearchResult struct {
	ID string `json:"id"`

	Score float32 `json:"score"`

	Payload map[string]any `json:"payload"`

	CollectionName string `json:"collectionName,omitempty"`
}

// MetadataRequest is a filter-only lookup, no vector involved.
type MetadataRequest struct {
	CollectionName string

	Filters *FilterSet

	Limit int
}

// EmbeddingInput is one point to upsert.
type EmbeddingInput struct {
	// ID is any stable string; stores that need UUIDs derive one from it.
	ID string `json:"id"`

	Vector []float32 `json:"vector"`

	Payload map[string]any `json:"payload,omitempty"`
}

// Collection describes a collection.
type Collection struct {
	Name string `json:"name"`

	Status string `json:"status"`

	VectorSize int `json:"vectorSize"`

	Distance string `json:"distance"`

	PointCount uint64 `json:"pointCount"`
}
