package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.ObserveSubmit(OutcomePlaced, 250*time.Millisecond)
	metrics.ObserveSubmit(OutcomeFailed, time.Second)
	metrics.IncRejected("pickup_lead_time")
	metrics.IncPersistFailure()
	metrics.IncPersistFailure()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for _, outcome := range []string{OutcomePlaced, OutcomeFailed, OutcomeRejected} {
		if got, err := fetchCounterValue(mfs, "checkout_outcomes_total", "outcome", outcome); err != nil {
			t.Fatalf("fetch %s: %v", outcome, err)
		} else if got != 1 {
			t.Fatalf("expected %s=1, got %f", outcome, got)
		}
	}

	if got, err := fetchCounterValue(mfs, "checkout_validation_rejections_total", "reason", "pickup_lead_time"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejections=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_submit_duration_seconds", "outcome", OutcomePlaced); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	mf := findMetricFamily(mfs, "cart_persist_failures_total")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected persist failure counter to be exported")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected persist failures=2, got %f", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var nilMetrics *CheckoutMetrics
	nilMetrics.ObserveSubmit(OutcomePlaced, time.Second)
	nilMetrics.IncRejected("x")
	nilMetrics.IncPersistFailure()

	unregistered := NewCheckoutMetrics(nil)
	unregistered.ObserveSubmit("", time.Second)
	unregistered.IncRejected("")
	unregistered.IncPersistFailure()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
