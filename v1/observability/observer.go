package observability

import "time"

// Observer receives a notification for every operation an infrastructure
// client performs. Implementations must be safe for concurrent use and must
// not block; they are called inline on the operation's goroutine.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the reporting client, e.g. "qdrant", "postgres", "router".
	Component string

	// Operation is the verb, e.g. "search", "upsert", "route".
	Operation string

	// Resource is the primary target (collection, table, key, topic).
	Resource string

	// SubResource adds optional detail such as a strategy or partition.
	SubResource string

	Duration time.Duration

	// Error is nil when the operation succeeded.
	Error error

	// Size is an operation specific count (rows, points, bytes).
	Size int64

	Metadata map[string]interface{}
}

// NoopObserver discards all notifications.
type NoopObserver struct{}

func (NoopObserver) ObserveOperation(OperationContext) {}
