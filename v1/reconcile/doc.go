// Package reconcile repairs drift between the structured float store and the
// vector collection.
//
// A pass enumerates every float id in the structured store, looks each one up
// in the vector store by its float_id payload (no embedding involved), loads
// the floats that are absent, and embeds and inserts them in batches. Batch
// failures are counted and reported as a partial result rather than aborting
// the pass. Passes are idempotent: a second pass with no new writes syncs
// nothing.
//
// Optional collaborators:
//
//   - a Locker (RedisLocker) so only one replica reconciles at a time; a pass
//     that finds the lock held reports StatusSkipped
//   - an AuditSink (LogSink, ObjectSink) receiving one AuditEntry per pass
//
// Run drives passes on a fixed interval.
package reconcile
