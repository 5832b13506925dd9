package dualstore

type Status string

const (
	// StatusSuccess means both stores hold the batch.
	StatusSuccess Status = "success"

	// StatusPartial means only the structured store holds it. Reconciliation
	// copies the floats into the vector store later.
	StatusPartial Status = "partial"

	// StatusError means the structured write failed and nothing was stored.
	StatusError Status = "error"
)

// IngestResult reports one Ingest call.
type IngestResult struct {
	Status       Status `json:"status"`
	SQLCount     int    `json:"sql_count"`
	ProfileCount int    `json:"profile_count"`
	VectorCount  int    `json:"vector_count"`
	Message      string `json:"message,omitempty"`
}

type SyncStatus string

const (
	SyncHealthy   SyncStatus = "healthy"
	SyncOutOfSync SyncStatus = "out_of_sync"
)

// Stats compares the number of floats in both stores.
type Stats struct {
	SQLCount    int64      `json:"sql_floats"`
	VectorCount uint64     `json:"vector_points"`
	SyncStatus  SyncStatus `json:"sync_status"`
}
