package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/classes", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/classes", "200"))
	assert.Equal(t, float64(1), count)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordBooking(t *testing.T) {
	BookingsTotal.Reset()

	RecordBooking("booked")
	RecordBooking("booked")
	RecordBooking("full")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingsTotal.WithLabelValues("booked")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingsTotal.WithLabelValues("full")))
}

func TestRecordBookingCancellation(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "formfitness_booking_cancellations_total_test",
			Help: "Total number of cancelled bookings",
		},
	)

	oldCounter := BookingCancellationsTotal
	BookingCancellationsTotal = testCounter
	defer func() { BookingCancellationsTotal = oldCounter }()

	RecordBookingCancellation()
	RecordBookingCancellation()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestRecordFreeze(t *testing.T) {
	FreezesTotal.Reset()

	RecordFreeze("frozen")
	RecordFreeze("already_frozen")

	assert.Equal(t, float64(1), testutil.ToFloat64(FreezesTotal.WithLabelValues("frozen")))
	assert.Equal(t, float64(1), testutil.ToFloat64(FreezesTotal.WithLabelValues("already_frozen")))
}

func TestRecordEmailMultipleTypes(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("booking_confirmation", "success")
	RecordEmail("booking_confirmation", "failed")
	RecordEmail("freeze_notice", "success")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("freeze_notice", "success")))
}

func TestRecordWalletTopUp(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "formfitness_wallet_topups_total_test",
			Help: "Total number of wallet top-ups",
		},
	)

	oldCounter := WalletTopUpsTotal
	WalletTopUpsTotal = testCounter
	defer func() { WalletTopUpsTotal = oldCounter }()

	RecordWalletTopUp()
	RecordWalletTopUp()
	RecordWalletTopUp()

	assert.Equal(t, float64(3), testutil.ToFloat64(testCounter))
}

func TestRecordSubscription(t *testing.T) {
	SubscriptionsCreatedTotal.Reset()

	RecordSubscription("one_month", "purchase")
	RecordSubscription("one_month", "purchase")
	RecordSubscription("twelve_months", "assign")

	assert.Equal(t, float64(2), testutil.ToFloat64(SubscriptionsCreatedTotal.WithLabelValues("one_month", "purchase")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SubscriptionsCreatedTotal.WithLabelValues("twelve_months", "assign")))
}

func TestGauges(t *testing.T) {
	SetActiveSubscriptions(12)
	assert.Equal(t, float64(12), testutil.ToFloat64(ActiveSubscriptions))

	SetActiveSubscriptions(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(ActiveSubscriptions))

	EmailQueueLength.Set(5)
	assert.Equal(t, float64(5), testutil.ToFloat64(EmailQueueLength))
}

func TestRecordEvent(t *testing.T) {
	EventsPublishedTotal.Reset()

	RecordEvent("booking.created")

	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("booking.created")))
}
