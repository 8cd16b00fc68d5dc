package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hms_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hms_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// ApplicationsSubmitted counts accepted contact-form submissions
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hms_applications_submitted_total",
			Help: "Number of housing applications accepted",
		},
	)

	// OverduePayments background sweep stats
	OverduePayments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hms_overdue_payments_total",
			Help: "Number of payments detected as newly overdue",
		},
	)

	// EventsPublished counts notification events queued to Kafka
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hms_notification_events_published_total",
			Help: "Number of notification events published, by type",
		},
		[]string{"type"},
	)
)

func Init() {
	prometheus.MustRegister(HTTPRequests, RequestDuration, ApplicationsSubmitted, OverduePayments, EventsPublished)
}
