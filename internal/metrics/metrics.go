// Package metrics provides Prometheus metrics for the coaching
// pipeline: snapshot builds, interventions, action application,
// notification delivery and the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_users_analyzed_total",
			Help: "Total number of users analyzed by batch runs",
		},
	)
	UsersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_users_skipped_total",
			Help: "Total number of users skipped during batch runs",
		},
		[]string{"reason"},
	)
	BatchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_batch_errors_total",
			Help: "Total number of per-user failures isolated during batch runs",
		},
	)
	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stride_snapshot_build_duration_seconds",
			Help:    "Performance snapshot build duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
	RiskLevels = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_risk_level_total",
			Help: "Total snapshots built by resulting risk level",
		},
		[]string{"level"},
	)
	InterventionsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_interventions_emitted_total",
			Help: "Total interventions emitted by type and severity",
		},
		[]string{"type", "severity"},
	)
	ActionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_actions_applied_total",
			Help: "Total record mutations applied from accepted interventions",
		},
		[]string{"kind"},
	)
	NotificationsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_notifications_enqueued_total",
			Help: "Total notifications enqueued for delivery",
		},
		[]string{"kind", "severity"},
	)
	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_notifications_delivered_total",
			Help: "Total notifications delivered by channel",
		},
		[]string{"kind", "channel"},
	)
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_notifications_failed_total",
			Help: "Total notification delivery failures by channel",
		},
		[]string{"kind", "channel"},
	)
	NotificationsDeferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_notifications_deferred_total",
			Help: "Total notifications deferred for quiet hours",
		},
		[]string{"kind"},
	)
	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_notifications_dropped_total",
			Help: "Total notifications dropped without delivery",
		},
		[]string{"kind", "reason"},
	)
	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stride_notification_queue_depth",
			Help: "Current depth of the notification queue",
		},
	)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stride_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

func RecordUserAnalyzed(riskLevel string, buildDuration time.Duration) {
	UsersAnalyzed.Inc()
	RiskLevels.WithLabelValues(riskLevel).Inc()
	SnapshotDuration.Observe(buildDuration.Seconds())
}

func RecordUserSkipped(reason string) {
	UsersSkipped.WithLabelValues(reason).Inc()
}

func RecordBatchError() {
	BatchErrors.Inc()
}

func RecordInterventionEmitted(interventionType, severity string) {
	InterventionsEmitted.WithLabelValues(interventionType, severity).Inc()
}

func RecordActionsApplied(kind string, count int) {
	ActionsApplied.WithLabelValues(kind).Add(float64(count))
}

func RecordNotificationEnqueued(kind, severity string) {
	NotificationsEnqueued.WithLabelValues(kind, severity).Inc()
}

func RecordNotificationDelivered(kind, channel string) {
	NotificationsDelivered.WithLabelValues(kind, channel).Inc()
}

func RecordNotificationFailed(kind, channel string) {
	NotificationsFailed.WithLabelValues(kind, channel).Inc()
}

func RecordNotificationDeferred(kind string) {
	NotificationsDeferred.WithLabelValues(kind).Inc()
}

func RecordNotificationDropped(kind, reason string) {
	NotificationsDropped.WithLabelValues(kind, reason).Inc()
}

func UpdateNotificationQueueDepth(depth int) {
	NotificationQueueDepth.Set(float64(depth))
}

func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
