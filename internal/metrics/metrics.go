package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "featuresgym_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_bookings_total",
			Help: "Total number of booking requests and decisions",
		},
		[]string{"status", "payer"},
	)

	MembershipSalesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_membership_sales_total",
			Help: "Memberships sold by plan duration",
		},
		[]string{"duration"},
	)

	SessionsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "featuresgym_sessions_completed_total",
			Help: "Sessions completed and credited to a gym ledger",
		},
	)

	EarningsCreditedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "featuresgym_earnings_credited_total",
			Help: "Owner earnings credited from completed sessions, in currency units",
		},
	)

	EarningsFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_earnings_failures_total",
			Help: "Session completions that could not be credited",
		},
		[]string{"reason"},
	)

	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_withdrawals_total",
			Help: "Withdrawal requests by resulting status",
		},
		[]string{"status"},
	)

	WithdrawalRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_withdrawal_rejections_total",
			Help: "Withdrawal requests rejected before booking",
		},
		[]string{"reason"},
	)

	AdmissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_admission_decisions_total",
			Help: "Automatic admission decisions by outcome and triggering condition",
		},
		[]string{"outcome", "condition"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "featuresgym_notifications_total",
			Help: "Notifications by kind and delivery status",
		},
		[]string{"kind", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "featuresgym_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status, payer string) {
	BookingsTotal.WithLabelValues(status, payer).Inc()
}

func RecordMembershipSale(duration string) {
	MembershipSalesTotal.WithLabelValues(duration).Inc()
}

// RecordSessionCompleted takes the credited amount as a float because
// prometheus counters are float64. The ledger itself never sees floats.
func RecordSessionCompleted(amount float64) {
	SessionsCompletedTotal.Inc()
	EarningsCreditedTotal.Add(amount)
}

func RecordEarningsFailure(reason string) {
	EarningsFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordWithdrawal(status string) {
	WithdrawalsTotal.WithLabelValues(status).Inc()
}

func RecordWithdrawalRejection(reason string) {
	WithdrawalRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordAdmissionDecision(outcome, condition string) {
	AdmissionDecisionsTotal.WithLabelValues(outcome, condition).Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}
