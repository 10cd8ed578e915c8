// Package metrics defines and registers all custom Prometheus metrics for the
// social API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on /metrics by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created" or the rejection reason (e.g. "conflict", "invalid")
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

// AuthRejectionsTotal counts requests refused by the session guard.
// Label:
//   - reason: "no_token", "invalid_token", "user_missing" or "error"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the session guard.",
	},
	[]string{"reason"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// ToggleActionsTotal counts like and follow toggles.
// Labels:
//   - kind: "like" or "follow"
//   - action: "on" or "off"
var ToggleActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toggle_actions_total",
		Help:      "Total number of like and follow toggles.",
	},
	[]string{"kind", "action"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notifications leaving the dispatcher.
// Labels:
//   - type: "like" or "follow"
//   - result: "stored", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications handled by the dispatcher, by result.",
	},
	[]string{"type", "result"},
)

// NotificationsQueueDepth tracks pending notifications per dispatcher worker.
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures how long storing a single notification takes.
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
