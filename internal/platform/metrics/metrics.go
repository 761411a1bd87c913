package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubmissionsCreated    prometheus.Counter
	SubmissionsDuplicate  prometheus.Counter
	SubmissionsFailed     prometheus.Counter
	StoreRetries          prometheus.Counter
	StoreRateLimits       prometheus.Counter
	NotificationsSent     prometheus.Counter
	NotificationsFailed   prometheus.Counter
	NotificationsDropped  prometheus.Counter
	ReconcileCycles       prometheus.Counter
	ReconcileCycleErrors  prometheus.Counter
	ReconcileTransitions  prometheus.Counter
	CatalogCacheHits      prometheus.Counter
	CatalogCacheStale     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_submissions_created_total",
			Help: "Profiles successfully written to the record store.",
		}),
		SubmissionsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_submissions_duplicate_total",
			Help: "Submissions rejected by the dedup guard or an existing profile.",
		}),
		SubmissionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_submissions_failed_total",
			Help: "Submissions that failed at the record store.",
		}),
		StoreRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_record_store_retries_total",
			Help: "Retried record store requests.",
		}),
		StoreRateLimits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_record_store_rate_limits_total",
			Help: "Record store responses with HTTP 429.",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_notifications_sent_total",
			Help: "Chat notifications delivered.",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_notifications_failed_total",
			Help: "Chat notifications that failed to deliver.",
		}),
		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full.",
		}),
		ReconcileCycles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_reconcile_cycles_total",
			Help: "Completed reconciliation cycles.",
		}),
		ReconcileCycleErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_reconcile_cycle_errors_total",
			Help: "Reconciliation cycles that failed to fetch the store.",
		}),
		ReconcileTransitions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_reconcile_transitions_total",
			Help: "Observed terminal status transitions.",
		}),
		CatalogCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_catalog_cache_hits_total",
			Help: "Catalog responses served from cache.",
		}),
		CatalogCacheStale: promauto.NewCounter(prometheus.CounterOpts{
			Name: "collab_catalog_cache_stale_total",
			Help: "Catalog responses served stale after a store error.",
		}),
	}
}
