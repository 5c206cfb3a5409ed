// Package metrics provides Prometheus instrumentation for the Engage matching
// engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MatchingRunsTotal counts matching runs, labeled by outcome:
	// "computed", "cached", or "failed".
	MatchingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engage_matching_runs_total",
		Help: "Total number of matching runs",
	}, []string{"outcome"})

	// MatchesFoundTotal counts matches produced across all runs.
	MatchesFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engage_matches_found_total",
		Help: "Total number of matches produced",
	})

	// MatchingDuration records end-to-end matching run latency in seconds.
	MatchingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engage_matching_duration_seconds",
		Help:    "Matching run latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// CandidatePoolSize tracks the size of the most recent candidate pool.
	CandidatePoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engage_candidate_pool_size",
		Help: "Number of approved profiles in the most recent candidate pool",
	})

	// NotificationsTriggeredTotal counts workflow-trigger payloads sent.
	NotificationsTriggeredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engage_notifications_triggered_total",
		Help: "Total number of notification payloads handed to the workflow trigger",
	})
)

func init() {
	prometheus.MustRegister(
		MatchingRunsTotal,
		MatchesFoundTotal,
		MatchingDuration,
		CandidatePoolSize,
		NotificationsTriggeredTotal,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
