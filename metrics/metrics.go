package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "globe_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "globe_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_rate_limit_rejections_total",
			Help: "Requests rejected by the per-IP limiter",
		},
		[]string{"class"},
	)

	// Media
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of stored media files",
		},
		[]string{"kind"},
	)

	MediaCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_cleanup_failures_total",
			Help: "On-disk media files that could not be removed",
		},
	)

	// Email
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_emails_total",
			Help: "OTP email dispatch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Background jobs
	ExpiredSessionsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_sessions_removed_total",
			Help: "Sessions deleted by the cleanup job",
		},
	)
)

func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEmail counts one dispatch attempt; outcome is sent, failed or skipped.
func RecordEmail(outcome string) {
	EmailsSent.WithLabelValues(outcome).Inc()
}
