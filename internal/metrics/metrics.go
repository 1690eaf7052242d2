// Package metrics provides Prometheus metrics for the HTTP API, MCP tools and
// the reminder and cascade workflows.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crmdesk"

var (
	// HTTPRequestsTotal counts HTTP requests.
	// Labels: method, route (chi route pattern), status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ToolCallsTotal counts MCP tool invocations.
	// Labels: tool, result (success, error)
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool calls",
		},
		[]string{"tool", "result"},
	)

	// ClientDeletesTotal counts cascading client deletes.
	// Labels: result (success, error)
	ClientDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "cascade_deletes_total",
			Help:      "Total number of cascading client deletes",
		},
		[]string{"result"},
	)

	// CascadeRowsDeleted counts dependent rows removed by cascading deletes.
	// Labels: kind (project, interaction, reminder)
	CascadeRowsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "cascade_rows_deleted_total",
			Help:      "Total number of dependent rows removed by client deletes",
		},
		[]string{"kind"},
	)

	// ReminderSyncItems counts per-project synchronizer outcomes.
	// Labels: outcome (created, updated, unchanged, failed)
	ReminderSyncItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "sync_items_total",
			Help:      "Total number of projects processed by deadline sync, by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveHTTPRequest records one finished HTTP request.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveToolCall records one MCP tool call.
func ObserveToolCall(tool string, err error) {
	ToolCallsTotal.WithLabelValues(tool, result(err)).Inc()
}

// ObserveClientDelete records a cascading delete and the rows it removed.
func ObserveClientDelete(projects, interactions, reminders int64, err error) {
	ClientDeletesTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	CascadeRowsDeleted.WithLabelValues("project").Add(float64(projects))
	CascadeRowsDeleted.WithLabelValues("interaction").Add(float64(interactions))
	CascadeRowsDeleted.WithLabelValues("reminder").Add(float64(reminders))
}

// ObserveReminderSync records the outcome counts of one synchronizer run.
func ObserveReminderSync(created, updated, unchanged, failed int) {
	ReminderSyncItems.WithLabelValues("created").Add(float64(created))
	ReminderSyncItems.WithLabelValues("updated").Add(float64(updated))
	ReminderSyncItems.WithLabelValues("unchanged").Add(float64(unchanged))
	ReminderSyncItems.WithLabelValues("failed").Add(float64(failed))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
