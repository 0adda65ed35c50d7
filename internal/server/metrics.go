package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lobo_solve_jobs_started_total",
		Help: "Solve jobs accepted by the server.",
	})

	jobsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lobo_solve_jobs_completed_total",
		Help: "Solve jobs that reached a terminal state, by status.",
	}, []string{"status"})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lobo_solve_duration_seconds",
		Help:    "Wall-clock duration of solve jobs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)
