// Package dualstore writes float records to the structured store and the
// vector collection and reports whether the two agree.
//
// The structured store is authoritative: a batch is only considered stored
// once its transaction commits. The vector write follows and may fail on its
// own; the batch is then reported as partial and the reconcile package
// repairs the collection on its next pass.
package dualstore
