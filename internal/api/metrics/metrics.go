// Package metrics defines the custom Prometheus collectors for the accounts
// API. They are registered with the default registry on import and served by
// the echoprometheus handler mounted at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Signup outcomes.
const (
	OutcomeCreated   = "created"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
	OutcomeThrottled = "throttled"
)

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// ── Signup metrics ────────────────────────────────────────────────────────────

// SignupRequestsTotal counts signup requests by outcome.
// Label:
//   - outcome: "created", "invalid", "error" or "throttled"
var SignupRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_requests_total",
		Help:      "Total number of signup requests, by outcome.",
	},
	[]string{"outcome"},
)

// SignupDuration measures how long a signup takes from bind to response,
// throttled requests excluded.
var SignupDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "signup_duration_seconds",
		Help:      "Duration of signup handling, including password hashing.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Auth and admin metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "failure" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AdminUserUpdatesTotal counts accounts edited through the admin API.
var AdminUserUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_user_updates_total",
		Help:      "Total number of accounts updated through the admin API.",
	},
)
