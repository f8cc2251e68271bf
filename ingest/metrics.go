package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Document outcome label values.
const (
	outcomeConverted = "converted"
	outcomeSkipped   = "skipped"
)

// Metrics counts ingest activity.
type Metrics struct {
	statements prometheus.Counter
	documents  *prometheus.CounterVec
}

// NewMetrics creates ingest metrics registered with reg. A nil reg leaves
// the collectors unregistered; they still count.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		statements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "factgraph",
			Name:      "statements_written_total",
			Help:      "Total statements written to the store",
		}),
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factgraph",
			Name:      "documents_processed_total",
			Help:      "Total corpus documents handled, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) statementWritten() {
	if m == nil {
		return
	}
	m.statements.Inc()
}

func (m *Metrics) document(outcome string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(outcome).Inc()
}
