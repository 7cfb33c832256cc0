package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RoutingMetrics records lead routing outcomes.
type RoutingMetrics struct {
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewRoutingMetrics registers the routing metrics on reg. A nil registerer
// yields a no-op recorder.
func NewRoutingMetrics(reg prometheus.Registerer) *RoutingMetrics {
	if reg == nil {
		return &RoutingMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leadrouter_routing_total",
		Help: "Lead routing calls by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadrouter_routing_duration_seconds",
		Help:    "Duration of lead routing calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(total, duration)
	return &RoutingMetrics{total: total, duration: duration}
}

// ObserveRouting counts one routing call and records its duration.
func (m *RoutingMetrics) ObserveRouting(outcome string, took time.Duration) {
	if m == nil || m.total == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.total.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
}
