package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomePlaced   = "placed"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// CheckoutMetrics records checkout outcomes and cart persistence health.
type CheckoutMetrics struct {
	outcomes       *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
	persistFailure prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout attempts by final outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_validation_rejections_total",
		Help: "Checkout attempts rejected during validation, by reason.",
	}, []string{"reason"})
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	persistFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart snapshot writes that failed.",
	})
	reg.MustRegister(outcomes, rejections, submitDuration, persistFailure)
	return &CheckoutMetrics{
		outcomes:       outcomes,
		rejections:     rejections,
		submitDuration: submitDuration,
		persistFailure: persistFailure,
	}
}

// ObserveSubmit records one submission round trip and its outcome.
func (m *CheckoutMetrics) ObserveSubmit(outcome string, duration time.Duration) {
	if m == nil || m.submitDuration == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.submitDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.outcomes.WithLabelValues(outcome).Inc()
}

// IncRejected counts a checkout that failed validation.
func (m *CheckoutMetrics) IncRejected(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
	m.outcomes.WithLabelValues(OutcomeRejected).Inc()
}

// IncPersistFailure counts a failed cart write.
func (m *CheckoutMetrics) IncPersistFailure() {
	if m == nil || m.persistFailure == nil {
		return
	}
	m.persistFailure.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
