// Package metrics exposes floatrouter's Prometheus metrics.
//
// Metrics keeps a private registry whose metrics all carry a constant
// service label, and serves it at /metrics. It implements
// observability.Observer, so every infrastructure client (qdrant, postgres,
// redis, minio, kafka) and the router, reconciler and dual store report
// into the same three series:
//
//	floatrouter_operations_total{component, operation, status}
//	floatrouter_operation_duration_seconds{component, operation}
//	floatrouter_operation_items_total{component, operation}
//
// LedgerCollector reads the router's performance ledger at scrape time and
// exports per-backend call counts, failures, average latency and success
// rate as gauges:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	if err := m.Register(metrics.NewLedgerCollector(ledger)); err != nil {
//		return err
//	}
//	go m.Server.ListenAndServe()
//
// With fx, FXModule provides *Metrics and the Observer and runs the server;
// LedgerModule registers the ledger collector.
package metrics
