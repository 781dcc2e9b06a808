// Package monitoring registers the Prometheus metrics exported by the
// booking core. Metrics are package-level promauto collectors so every
// service can record without plumbing a registry around.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventify_bookings_total",
			Help: "Booking transactions by outcome",
		},
		[]string{"outcome"},
	)

	ticketsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventify_tickets_issued_total",
			Help: "Tickets created by committed booking transactions",
		},
	)

	noShowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventify_no_shows_total",
			Help: "Tickets cancelled as no-shows",
		},
	)

	promotionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventify_waitlist_promotions_total",
			Help: "Waitlist entries promoted into confirmed tickets",
		},
	)

	restoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventify_no_show_restores_total",
			Help: "No-show cancellations restored to confirmed",
		},
	)

	refundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventify_refunds_total",
			Help: "Refund attempts by outcome",
		},
		[]string{"outcome"},
	)

	bookingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventify_booking_duration_seconds",
			Help:    "Wall time of the booking transaction",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	eventsClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventify_events_closed_total",
			Help: "LIVE events transitioned to ENDED by the status sweep",
		},
	)
)

// TrackBooking records the outcome and duration of one booking
// transaction; issued is the number of tickets created on success.
func TrackBooking(outcome string, issued int, elapsed time.Duration) {
	bookingsTotal.WithLabelValues(outcome).Inc()
	if issued > 0 {
		ticketsIssuedTotal.Add(float64(issued))
	}
	bookingDuration.Observe(elapsed.Seconds())
}

// TrackNoShow records a committed no-show; promoted reports whether a
// waitlist entry was consumed.
func TrackNoShow(promoted bool) {
	noShowsTotal.Inc()
	if promoted {
		promotionsTotal.Inc()
	}
}

// TrackRestore records a committed restore.
func TrackRestore() { restoresTotal.Inc() }

// TrackRefund records a refund attempt outcome.
func TrackRefund(outcome string) { refundsTotal.WithLabelValues(outcome).Inc() }

// TrackEventsClosed records how many events a sweep pass closed.
func TrackEventsClosed(n int64) {
	if n > 0 {
		eventsClosedTotal.Add(float64(n))
	}
}
