package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRoutingMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRoutingMetrics(reg)

	m.ObserveRouting("assigned", 20*time.Millisecond)
	m.ObserveRouting("assigned", 10*time.Millisecond)
	m.ObserveRouting("no_match", time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	total := find(mfs, "leadrouter_routing_total")
	if total == nil {
		t.Fatalf("routing total not exported")
	}
	if got := counterFor(total, "assigned"); got != 2 {
		t.Fatalf("expected assigned=2, got %f", got)
	}
	if got := counterFor(total, "no_match"); got != 1 {
		t.Fatalf("expected no_match=1, got %f", got)
	}

	dur := find(mfs, "leadrouter_routing_duration_seconds")
	if dur == nil {
		t.Fatalf("duration histogram not exported")
	}
	if n := dur.GetMetric()[0].GetHistogram().GetSampleCount(); n != 3 {
		t.Fatalf("expected 3 observations, got %d", n)
	}
}

func TestRoutingMetrics_NilSafe(t *testing.T) {
	var m *RoutingMetrics
	m.ObserveRouting("assigned", time.Second)
	NewRoutingMetrics(nil).ObserveRouting("assigned", time.Second)
}

func find(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterFor(mf *dto.MetricFamily, outcome string) float64 {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "outcome" && lp.GetValue() == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
