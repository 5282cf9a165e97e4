// Package metrics defines and registers all custom Prometheus metrics for the
// SyncFlow API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics next to the echoprometheus request
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "syncflow"

// ── Realtime metrics ──────────────────────────────────────────────────────────

// RealtimeConnections tracks the number of open push connections.
var RealtimeConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connections",
		Help:      "Current number of open server-sent event connections.",
	},
)

// RealtimeEventsTotal counts broadcast events.
// Label:
//   - type: the event type (e.g. "NEW_CLIENT")
var RealtimeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Total number of events broadcast to push connections.",
	},
	[]string{"type"},
)

// RealtimeDeliveryFailuresTotal counts frames that could not be handed to a connection.
// Label:
//   - reason: "slow_consumer", "closed" or "send_error"
var RealtimeDeliveryFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_delivery_failures_total",
		Help:      "Total number of frames dropped for a single connection.",
	},
	[]string{"reason"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ClientsCreatedTotal counts newly created clients.
var ClientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of clients created.",
	},
)

// InvoicesCreatedTotal counts newly created invoices.
// Label:
//   - status: initial invoice status ("unpaid", "paid", "overdue")
var InvoicesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created, by initial status.",
	},
	[]string{"status"},
)

// AnalyticsQueriesTotal counts dashboard computations.
// Label:
//   - period: resolved period ("daily", "monthly", "yearly")
var AnalyticsQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_queries_total",
		Help:      "Total number of analytics dashboard queries, by resolved period.",
	},
	[]string{"period"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
