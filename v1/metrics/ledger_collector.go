package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/floatrouter/v1/router"
)

// LedgerSource yields the current router statistics. *router.Ledger
// implements it.
type LedgerSource interface {
	Snapshot() router.LedgerSnapshot
}

// LedgerCollector exports a router ledger snapshot at scrape time.
type LedgerCollector struct {
	source LedgerSource

	calls       *prometheus.Desc
	failures    *prometheus.Desc
	avgLatency  *prometheus.Desc
	successRate *prometheus.Desc
}

func NewLedgerCollector(source LedgerSource) *LedgerCollector {
	backend := []string{"backend"}
	return &LedgerCollector{
		source: source,
		calls: prometheus.NewDesc(prometheus.BuildFQName(namespace, "router", "backend_calls"),
			"Calls recorded in the router ledger since the last reset.", backend, nil),
		failures: prometheus.NewDesc(prometheus.BuildFQName(namespace, "router", "backend_failures"),
			"Failed calls recorded in the router ledger since the last reset.", backend, nil),
		avgLatency: prometheus.NewDesc(prometheus.BuildFQName(namespace, "router", "backend_avg_latency_seconds"),
			"Average call latency in the router ledger.", backend, nil),
		successRate: prometheus.NewDesc(prometheus.BuildFQName(namespace, "router", "backend_success_rate"),
			"Share of successful calls in the router ledger, 0 before the first call.", backend, nil),
	}
}

func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.failures
	ch <- c.avgLatency
	ch <- c.successRate
}

func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Snapshot()

	for _, b := range []router.Backend{router.BackendSQL, router.BackendVector} {
		st := s.Backend(b)
		label := string(b)
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.GaugeValue, float64(st.TotalQueries), label)
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.GaugeValue, float64(st.Failures), label)
		ch <- prometheus.MustNewConstMetric(c.avgLatency, prometheus.GaugeValue, st.AvgResponseTime, label)
		ch <- prometheus.MustNewConstMetric(c.successRate, prometheus.GaugeValue, st.SuccessRate, label)
	}

	// the concurrent entry has no failures or success rate
	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.GaugeValue, float64(s.Concurrent.TotalQueries), "concurrent")
	ch <- prometheus.MustNewConstMetric(c.avgLatency, prometheus.GaugeValue, s.Concurrent.AvgResponseTime, "concurrent")
}
