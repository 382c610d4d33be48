package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records basket checkout and booking lifecycle outcomes.
type CheckoutMetrics struct {
	duration    *prometheus.HistogramVec
	created     *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "basket_checkout_duration_seconds",
		Help:    "Duration of basket checkout transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings created through basket checkout.",
	}, []string{"payment_type"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Checkouts rejected because a requested slot was taken.",
	}, []string{"tenant"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_status_transitions_total",
		Help: "Booking status transitions applied.",
	}, []string{"to_status"})
	reg.MustRegister(duration, created, conflicts, transitions)
	return &CheckoutMetrics{
		duration:    duration,
		created:     created,
		conflicts:   conflicts,
		transitions: transitions,
	}
}

// ObserveCheckout records the duration of one checkout attempt.
func (c *CheckoutMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncBookingsCreated adds n to the created counter for the given payment type.
func (c *CheckoutMetrics) IncBookingsCreated(paymentType string, n int) {
	if c == nil || c.created == nil {
		return
	}
	c.created.WithLabelValues(normalizeLabel(paymentType)).Add(float64(n))
}

// IncSlotConflict increments the conflict counter for the tenant.
func (c *CheckoutMetrics) IncSlotConflict(tenant string) {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.WithLabelValues(normalizeLabel(tenant)).Inc()
}

// IncStatusTransition increments the transition counter for the target status.
func (c *CheckoutMetrics) IncStatusTransition(toStatus string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(toStatus)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
