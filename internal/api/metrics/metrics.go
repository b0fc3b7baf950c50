// Package metrics defines and registers all custom Prometheus metrics for
// the campus API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campus"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "bad_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// VerificationsTotal counts verification-token consumptions.
// Label:
//   - result: "success", "invalid_token", or "already_verified"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Game-server status metrics ────────────────────────────────────────────────

// StatusReportsTotal counts status reports pushed by game servers.
// Label:
//   - state: the reported state ("running", "maintenance", ...), or
//     "rejected" when the report failed admission.
var StatusReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_reports_total",
		Help:      "Total number of game-server status reports, by reported state.",
	},
	[]string{"state"},
)

// TrackedServers tracks how many servers currently have a live status entry.
var TrackedServers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_servers",
		Help:      "Number of game servers with a live status entry.",
	},
)

// CleanupEvictionsTotal counts queue slots removed by the periodic sweep.
var CleanupEvictionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_evictions_total",
		Help:      "Total number of stale status entries evicted by the periodic cleanup.",
	},
)
