package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the booking engine.
type Metrics struct {
	// BookingsTotal counts reserve attempts by outcome.
	BookingsTotal *prometheus.CounterVec

	// StatusChangesTotal counts lifecycle transitions by target status.
	StatusChangesTotal *prometheus.CounterVec

	// AvailabilityRequests counts slot listings by cache result.
	AvailabilityRequests *prometheus.CounterVec

	// AvailabilityDuration is the time to compute a slot listing.
	AvailabilityDuration prometheus.Histogram

	// PaymentChecks counts gateway confirmations by outcome.
	PaymentChecks *prometheus.CounterVec

	// NotificationsDropped counts notifications lost to a full queue.
	NotificationsDropped prometheus.Counter

	// HTTPRequests counts handled requests by route and status.
	HTTPRequests *prometheus.CounterVec
}

// New registers the metrics on reg. Tests pass a fresh registry so repeated
// construction does not collide.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BookingsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_reserved_total",
				Help:      "Reserve attempts by outcome",
			},
			[]string{"outcome"},
		),

		StatusChangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_status_changes_total",
				Help:      "Booking status transitions by target status",
			},
			[]string{"status"},
		),

		AvailabilityRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "availability_requests_total",
				Help:      "Slot listings by cache result",
			},
			[]string{"cache"},
		),

		AvailabilityDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "availability_compute_seconds",
				Help:      "Time to compute a slot listing",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
			},
		),

		PaymentChecks: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_confirmations_total",
				Help:      "Gateway confirmations by outcome",
			},
			[]string{"outcome"},
		),

		NotificationsDropped: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_dropped_total",
				Help:      "Notifications dropped because the queue was full",
			},
		),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Handled HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// NewNop returns metrics registered on a private registry.
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}
