package metrics

import (
	"github.com/Aleph-Alpha/floatrouter/v1/observability"
)

// ObserveOperation records one operation. Status is "error" when the
// operation failed, "ok" otherwise.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	status := "ok"
	if op.Error != nil {
		status = "error"
	}

	m.operationsTotal.WithLabelValues(op.Component, op.Operation, status).Inc()
	m.operationDuration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
	if op.Size > 0 {
		m.operationItems.WithLabelValues(op.Component, op.Operation).Add(float64(op.Size))
	}
}
