package advisor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks how the advisor is behaving in production: how many
// recommendations it emits per field, how long an inference takes and how
// often confidence drops below the review threshold.
type Metrics struct {
	decisions     *prometheus.CounterVec
	lowConfidence *prometheus.CounterVec
	inference     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "decisions_total",
			Help:      "Irrigation recommendations published, per field.",
		}, []string{"field"}),
		lowConfidence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "advisor",
			Name:      "low_confidence_total",
			Help:      "Recommendations below the confidence review threshold, per field.",
		}, []string{"field"}),
		inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "advisor",
			Name:      "inference_duration_seconds",
			Help:      "Wall time of one fuzzy inference including cache hits.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.decisions, m.lowConfidence, m.inference)
	}
	return m
}

func (m *Metrics) CountDecision(field string) {
	m.decisions.WithLabelValues(field).Inc()
}

func (m *Metrics) CountLowConfidence(field string) {
	m.lowConfidence.WithLabelValues(field).Inc()
}

func (m *Metrics) ObserveInference(d time.Duration) {
	m.inference.Observe(d.Seconds())
}
