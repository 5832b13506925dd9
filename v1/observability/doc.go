// Package observability defines the hook that infrastructure clients in this
// module report their operations through.
//
// Clients hold an optional Observer and call ObserveOperation after every
// backend round trip. The metrics package provides a Prometheus-backed
// implementation; tests typically use a recording observer.
//
//	client = client.WithObserver(metrics.NewObserver(m))
package observability
