// Package router answers float queries from a relational and a vector
// backend, choosing per query which one to ask.
//
// A query is classified (numeric, semantic or mixed) by lexical patterns.
// Select then picks a strategy from the classification and the Ledger, an
// in-memory record of each backend's invocations, latency and failures:
//
//   - sql_first asks the structured backend and falls back to the vector
//     backend when it fails, times out or returns nothing;
//   - vector_first asks only the vector backend;
//   - concurrent asks both at once and concatenates whatever succeeded.
//
// Every backend call is bounded by its own timeout. A call that times out is
// abandoned rather than awaited: its context is cancelled but the adapter may
// still finish in the background. Structured calls additionally wait for a
// slot in a bounded worker pool.
//
// Route never fails. Timeouts, adapter errors and panics are recorded in the
// ledger and surface as the Status of the returned Envelope:
//
//	r := router.NewRouter(router.DefaultConfig(), sqlBackend, vectorBackend, router.NewLedger(), log)
//	env := r.Route(ctx, router.Query{Text: "floats below 2000 m near the equator"})
//	if env.Status != router.StatusSuccess {
//	    log.Warn("degraded answer", nil, map[string]interface{}{"sql_error": env.SQLError})
//	}
package router
