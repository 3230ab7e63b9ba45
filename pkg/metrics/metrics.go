package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation and pricing pipeline outcomes.
type CartMetrics struct {
	mutations         *prometheus.CounterVec
	rejections        *prometheus.CounterVec
	adjustmentFetches *prometheus.CounterVec
	checkouts         *prometheus.CounterVec
	adjustmentLatency *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Applied cart mutations by operation.",
	}, []string{"op"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutation_rejections_total",
		Help: "Cart mutations rejected as invariant violations.",
	}, []string{"op"})
	adjustmentFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_adjustment_fetches_total",
		Help: "Adjustment fetch attempts by outcome.",
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_checkouts_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	adjustmentLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_adjustment_fetch_seconds",
		Help:    "Duration of adjustment fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(mutations, rejections, adjustmentFetches, checkouts, adjustmentLatency)
	return &CartMetrics{
		mutations:         mutations,
		rejections:        rejections,
		adjustmentFetches: adjustmentFetches,
		checkouts:         checkouts,
		adjustmentLatency: adjustmentLatency,
	}
}

// IncMutation counts one applied mutation for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRejection counts one rejected mutation for the named operation.
func (c *CartMetrics) IncRejection(op string) {
	if c == nil || c.rejections == nil {
		return
	}
	c.rejections.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveAdjustmentFetch records the outcome and duration of one fetch.
func (c *CartMetrics) ObserveAdjustmentFetch(outcome string, duration time.Duration) {
	if c == nil || c.adjustmentFetches == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.adjustmentFetches.WithLabelValues(label).Inc()
	c.adjustmentLatency.WithLabelValues(label).Observe(duration.Seconds())
}

// IncCheckout counts one checkout submission by outcome.
func (c *CartMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
