// Package metrics defines all custom Prometheus metrics for the user
// service. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at init time via
// promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usersvc"

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenResolutionsTotal counts session resolution attempts.
// Label:
//   - outcome: "access" (fresh access token), "refresh_fallback" (expired
//     access, refresh accepted), "failed"
var TokenResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_resolutions_total",
		Help:      "Total number of session resolution attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenPairsIssuedTotal counts issued access+refresh pairs.
var TokenPairsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_pairs_issued_total",
		Help:      "Total number of access+refresh token pairs issued.",
	},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsTotal counts audit events that reached persistence.
// Label:
//   - action: "register", "login", "profile_read"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events persisted, by action.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
