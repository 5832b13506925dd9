package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "floatrouter"

// Metrics owns an isolated Prometheus registry and the HTTP server that
// exposes it. It implements observability.Observer.
type Metrics struct {
	// Server serves the registry at /metrics.
	Server *http.Server

	// Registry is private to this service; every metric registered through
	// Register carries the service label.
	Registry *prometheus.Registry

	registerer prometheus.Registerer

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationItems    *prometheus.CounterVec
}

// NewMetrics creates the registry, registers the operation metrics and,
// when enabled, the Go/process/build collectors, and prepares the server.
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// service="<cfg.ServiceName>" on everything registered below
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrapped,
	}

	m.operationsTotal = createCounterVec("operations_total",
		"Operations reported by infrastructure clients, by outcome.",
		[]string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec("operation_duration_seconds",
		"Duration of operations reported by infrastructure clients.",
		[]string{"component", "operation"}, prometheus.DefBuckets)
	m.operationItems = createCounterVec("operation_items_total",
		"Items (rows, points, messages, bytes) handled by operations.",
		[]string{"component", "operation"})

	wrapped.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.operationItems,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return m
}

// Register adds collectors to the service registry.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registerer.Register(c); err != nil {
			return err
		}
	}
	return nil
}
