package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the notification pipeline.
type Metrics struct {
	Queued    prometheus.Counter
	Sent      prometheus.Counter
	Failed    prometheus.Counter
	Discarded prometheus.Counter
}

// NewMetrics creates and registers the notification metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Queued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_notifications_queued_total",
			Help: "Total number of notification messages published to the exchange",
		}),
		Sent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_notifications_sent_total",
			Help: "Total number of notification emails delivered",
		}),
		Failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_notifications_failed_total",
			Help: "Total number of notification deliveries that failed and were rejected",
		}),
		Discarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_notifications_discarded_total",
			Help: "Total number of undecodable notification messages discarded",
		}),
	}
}
