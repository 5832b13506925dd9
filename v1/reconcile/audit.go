package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// CtxLogger logs with the trace ids carried by ctx. logger.Logger
// implements it.
type CtxLogger interface {
	InfoCtx(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// LogSink writes audit entries to the logger.
type LogSink struct {
	logger CtxLogger
}

func NewLogSink(logger CtxLogger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, e AuditEntry) error {
	s.logger.InfoCtx(ctx, "reconciliation audit", nil, map[string]interface{}{
		"run_id":       e.RunID,
		"status":       string(e.Status),
		"scanned":      e.Scanned,
		"missing":      e.Missing,
		"synced_count": e.SyncedCount,
		"failed_ids":   e.Failed,
		"started_at":   e.StartedAt,
		"finished_at":  e.FinishedAt,
	})
	return nil
}

// ObjectStore stores JSON documents by key. minio.MinioClient implements it.
type ObjectStore interface {
	PutJSON(ctx context.Context, key string, v any) error
}

// ObjectSink stores each entry as reconcile/YYYY/MM/DD/<run-id>.json.
type ObjectSink struct {
	store ObjectStore
}

func NewObjectSink(store ObjectStore) *ObjectSink {
	return &ObjectSink{store: store}
}

func (s *ObjectSink) Record(ctx context.Context, e AuditEntry) error {
	return s.store.PutJSON(ctx, AuditKey(e), e)
}

// AuditKey is the object key of an entry, partitioned by start date in UTC.
func AuditKey(e AuditEntry) string {
	return AuditPrefix(e.StartedAt) + e.RunID + ".json"
}

// AuditPrefix is the key prefix of every entry started on day (UTC).
func AuditPrefix(day time.Time) string {
	return fmt.Sprintf("reconcile/%s/", day.UTC().Format("2006/01/02"))
}

// AuditReader reads back what ObjectSink stored. minio.MinioClient
// implements it.
type AuditReader interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	GetJSON(ctx context.Context, key string, v any) error
}

// ListAudits loads the entries of the passes started on day, oldest first.
func ListAudits(ctx context.Context, store AuditReader, day time.Time) ([]AuditEntry, error) {
	keys, err := store.ListKeys(ctx, AuditPrefix(day))
	if err != nil {
		return nil, err
	}

	entries := make([]AuditEntry, 0, len(keys))
	for _, k := range keys {
		var e AuditEntry
		if err := store.GetJSON(ctx, k, &e); err != nil {
			return nil, fmt.Errorf("read audit %s: %w", k, err)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartedAt.Before(entries[j].StartedAt) })
	return entries, nil
}

// MultiSink fans an entry out to every sink and returns the first error.
type MultiSink []AuditSink

func (m MultiSink) Record(ctx context.Context, e AuditEntry) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
