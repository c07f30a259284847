// Package metrics defines and registers all custom Prometheus metrics for the
// posts API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto. HTTP request metrics are collected
// separately by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "posts_api"

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntityMutationsTotal counts successful mutations.
// Labels:
//   - entity: "user" or "post"
//   - action: "created", "updated" or "deleted"
var EntityMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_mutations_total",
		Help:      "Total number of successful entity mutations.",
	},
	[]string{"entity", "action"},
)

// EntityRejectionsTotal counts operations refused by a domain invariant.
// Labels:
//   - entity: "user" or "post"
//   - reason: "not_found", "email_exists" or "author_not_found"
var EntityRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_rejections_total",
		Help:      "Total number of operations rejected by a domain invariant.",
	},
	[]string{"entity", "reason"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreMirrorFailuresTotal counts writes that succeeded on one store but not
// the other, leaving reader and writer diverged.
// Labels:
//   - table: the table whose mirror write failed
//   - op: "create", "update" or "delete"
var StoreMirrorFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_mirror_failures_total",
		Help:      "Total number of dual-store writes that left the stores diverged.",
	},
	[]string{"table", "op"},
)

// ── Infrastructure metrics ────────────────────────────────────────────────────

// RateLimitRejectedTotal counts requests refused by the rate limiter.
var RateLimitRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejected_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// AuditDroppedTotal counts audit entries discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped due to a full dispatcher queue.",
	},
)

// AuditQueueDepth tracks the number of entries pending in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
