package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formfitness_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formfitness_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formfitness_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"result"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formfitness_booking_cancellations_total",
			Help: "Total number of cancelled bookings",
		},
	)

	FreezesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formfitness_subscription_freezes_total",
			Help: "Freeze requests by outcome",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formfitness_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "formfitness_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formfitness_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formfitness_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"type", "channel"},
	)

	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "formfitness_active_subscriptions",
			Help: "Subscriptions counted as active at the last statistics read",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formfitness_events_published_total",
			Help: "Events published on the bus",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(result string) {
	BookingsTotal.WithLabelValues(result).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordFreeze(result string) {
	FreezesTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

// RecordSubscription counts a new subscription; channel is "assign" or "purchase".
func RecordSubscription(subType, channel string) {
	SubscriptionsCreatedTotal.WithLabelValues(subType, channel).Inc()
}

func SetActiveSubscriptions(n int) {
	ActiveSubscriptions.Set(float64(n))
}

func RecordEvent(eventType string) {
	EventsPublishedTotal.WithLabelValues(eventType).Inc()
}
