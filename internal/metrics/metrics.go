// Package metrics defines the Prometheus instrumentation for the poll service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Vote pipeline metrics
var (
	// VotesTotal tracks vote attempts by outcome (ok, already_voted,
	// invalid_option, not_votable, not_found, rate_limited, error).
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_votes_total",
			Help: "Total vote attempts by outcome",
		},
		[]string{"outcome"},
	)

	// VoteDuration tracks end-to-end vote recording latency in seconds
	VoteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poll_vote_duration_seconds",
			Help:    "Vote recording duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)

// Poll lifecycle metrics
var (
	// PollsCreatedTotal tracks polls created
	PollsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poll_polls_created_total",
			Help: "Total polls created",
		},
	)

	// PollsDeletedTotal tracks polls deleted
	PollsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poll_polls_deleted_total",
			Help: "Total polls deleted",
		},
	)

	// StatusChangesTotal tracks status transitions by new status
	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_status_changes_total",
			Help: "Total poll status changes by new status",
		},
		[]string{"status"},
	)
)

// Store metrics
var (
	// StoreOpsTotal tracks store operations by operation and status
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_store_operations_total",
			Help: "Total store operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RateLimitRejectionsTotal tracks vote attempts rejected by the rate limiter
	RateLimitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poll_rate_limit_rejections_total",
			Help: "Total vote attempts rejected by the rate limiter",
		},
	)
)

// ObserveStoreOp records the result of a store operation.
func ObserveStoreOp(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOpsTotal.WithLabelValues(operation, status).Inc()
}
