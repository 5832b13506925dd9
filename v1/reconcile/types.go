package reconcile

import (
	"errors"
	"time"
)

// ErrLocked is returned by a Locker when the lock is held elsewhere.
var ErrLocked = errors.New("reconcile: lock held by another replica")

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Result summarises one pass.
type Result struct {
	RunID       string   `json:"run_id"`
	SyncedCount int      `json:"synced_count"`
	Status      Status   `json:"status"`
	Scanned     int      `json:"scanned"`
	Missing     int      `json:"missing"`
	Failed      []string `json:"failed,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// AuditEntry is the persisted record of a pass.
type AuditEntry struct {
	Result
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
