package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query status label values.
const (
	statusOK      = "ok"
	statusError   = "error"
	statusTimeout = "timeout"
)

// Metrics counts executed queries by shape and outcome.
type Metrics struct {
	queries  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates query metrics registered with reg. A nil reg leaves
// the collectors unregistered; they still count.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factgraph",
			Name:      "queries_total",
			Help:      "Total structured queries executed, by shape and status",
		}, []string{"shape", "status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "factgraph",
			Name:      "query_duration_seconds",
			Help:      "Structured query execution time in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}
}

func (m *Metrics) observe(shape, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(shape, status).Inc()
	m.duration.Observe(d.Seconds())
}
