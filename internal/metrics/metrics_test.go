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

	RecordHTTPRequest("GET", "/owner/balance", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/owner/balance", "200"))
	assert.Equal(t, float64(1), count)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/owner/withdrawals", "201", 0.1)
	RecordHTTPRequest("POST", "/owner/withdrawals", "201", 0.2)
	RecordHTTPRequest("POST", "/owner/withdrawals", "422", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/owner/withdrawals", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/owner/withdrawals", "422")))
}

func TestRecordBooking(t *testing.T) {
	BookingsTotal.Reset()

	RecordBooking("pending", "membership")
	RecordBooking("pending", "drop_in")
	RecordBooking("pending", "membership")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingsTotal.WithLabelValues("pending", "membership")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingsTotal.WithLabelValues("pending", "drop_in")))
}

func TestRecordSessionCompleted(t *testing.T) {
	sessions := prometheus.NewCounter(prometheus.CounterOpts{Name: "featuresgym_sessions_completed_total_test"})
	credited := prometheus.NewCounter(prometheus.CounterOpts{Name: "featuresgym_earnings_credited_total_test"})

	oldSessions, oldCredited := SessionsCompletedTotal, EarningsCreditedTotal
	SessionsCompletedTotal, EarningsCreditedTotal = sessions, credited
	defer func() { SessionsCompletedTotal, EarningsCreditedTotal = oldSessions, oldCredited }()

	RecordSessionCompleted(70)
	RecordSessionCompleted(12.5)

	assert.Equal(t, float64(2), testutil.ToFloat64(sessions))
	assert.Equal(t, 82.5, testutil.ToFloat64(credited))
}

func TestRecordWithdrawalAndRejection(t *testing.T) {
	WithdrawalsTotal.Reset()
	WithdrawalRejectionsTotal.Reset()

	RecordWithdrawal("pending")
	RecordWithdrawal("completed")
	RecordWithdrawalRejection("insufficient_balance")
	RecordWithdrawalRejection("insufficient_balance")

	assert.Equal(t, float64(1), testutil.ToFloat64(WithdrawalsTotal.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(WithdrawalsTotal.WithLabelValues("completed")))
	assert.Equal(t, float64(2), testutil.ToFloat64(WithdrawalRejectionsTotal.WithLabelValues("insufficient_balance")))
}

func TestRecordAdmissionDecision(t *testing.T) {
	AdmissionDecisionsTotal.Reset()

	RecordAdmissionDecision("cancelled", "high_occupancy")
	RecordAdmissionDecision("accepted", "members_only")

	assert.Equal(t, float64(1), testutil.ToFloat64(AdmissionDecisionsTotal.WithLabelValues("cancelled", "high_occupancy")))
	assert.Equal(t, float64(1), testutil.ToFloat64(AdmissionDecisionsTotal.WithLabelValues("accepted", "members_only")))
}

func TestRecordNotification(t *testing.T) {
	NotificationsTotal.Reset()

	RecordNotification("booking_accepted", "queued")
	RecordNotification("booking_accepted", "sent")
	RecordNotification("withdrawal_failed", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(NotificationsTotal.WithLabelValues("booking_accepted", "queued")))
	assert.Equal(t, float64(1), testutil.ToFloat64(NotificationsTotal.WithLabelValues("withdrawal_failed", "failed")))
}

func TestNotificationQueueLength(t *testing.T) {
	NotificationQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(NotificationQueueLength))

	NotificationQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(NotificationQueueLength))
}

func TestRecordMembershipSale(t *testing.T) {
	MembershipSalesTotal.Reset()

	RecordMembershipSale("Monthly")
	RecordMembershipSale("Monthly")
	RecordMembershipSale("Yearly")

	assert.Equal(t, float64(2), testutil.ToFloat64(MembershipSalesTotal.WithLabelValues("Monthly")))
	assert.Equal(t, float64(1), testutil.ToFloat64(MembershipSalesTotal.WithLabelValues("Yearly")))
}
