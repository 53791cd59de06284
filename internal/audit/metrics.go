package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the audit pipeline.
type Metrics struct {
	Ingested  prometheus.Counter
	Rejected  prometheus.Counter
	Persisted prometheus.Counter
	Dropped   prometheus.Counter
}

// NewMetrics creates and registers the audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Ingested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_audit_messages_ingested_total",
			Help: "Total number of audit messages accepted onto the log topic",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_audit_messages_rejected_total",
			Help: "Total number of audit messages that could not be produced",
		}),
		Persisted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_audit_rows_persisted_total",
			Help: "Total number of audit rows written by the sink consumer",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_audit_records_dropped_total",
			Help: "Total number of undecodable audit records dropped by the sink consumer",
		}),
	}
}
