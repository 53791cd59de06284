package enrollment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the enrollment workflow.
type Metrics struct {
	Enrollments        prometheus.Counter
	Unenrollments      prometheus.Counter
	ValidationFailures prometheus.Counter
	DispatchFailures   prometheus.Counter
}

// NewMetrics creates and registers the enrollment metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Enrollments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_enrollments_total",
			Help: "Total number of successful enrollments",
		}),
		Unenrollments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_unenrollments_total",
			Help: "Total number of successful unenrollments",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_enrollment_validation_failures_total",
			Help: "Total number of enroll/unenroll requests rejected by a precondition",
		}),
		DispatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matricula_event_dispatch_failures_total",
			Help: "Total number of event dispatches that failed after the record was committed",
		}),
	}
}
