package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leeks92/flight-mustarddata/internal/pkg/config"
)

// WorkerMetrics tracks the worker's scheduled collection runs on top of the
// shared configuration metrics.
//
// Worker metrics:
//   - worker_fetch_runs_total{status}: runs by outcome
//   - worker_fetch_duration_seconds: run duration histogram
//   - worker_fetch_routes_total: routes emitted across all runs
//   - worker_fetch_last_success_timestamp: last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	FetchRunsTotal           *prometheus.CounterVec
	FetchDurationSeconds     prometheus.Histogram
	FetchRoutesTotal         prometheus.Counter
	FetchLastSuccessUnixtime prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with the default registry.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		FetchRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_fetch_runs_total",
			Help: "Total number of scheduled collection runs by status",
		}, []string{"status"}),

		FetchDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "worker_fetch_duration_seconds",
			Help: "Duration of a full collection run in seconds",
			// Sequential pagination with mandated delays makes runs slow;
			// buckets reach into the tens of minutes.
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800, 2700},
		}),

		FetchRoutesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_fetch_routes_total",
			Help: "Total number of departure routes emitted across all runs",
		}),

		FetchLastSuccessUnixtime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_fetch_last_success_timestamp",
			Help: "Unix timestamp of the last successful collection run",
		}),
	}
}

// RecordRun counts one run with the given outcome ("started", "success" or
// "failure").
func (m *WorkerMetrics) RecordRun(status string) {
	m.FetchRunsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration observes one run's duration in seconds.
func (m *WorkerMetrics) RecordRunDuration(seconds float64) {
	m.FetchDurationSeconds.Observe(seconds)
}

// RecordRoutesEmitted adds the number of departure routes a run produced.
func (m *WorkerMetrics) RecordRoutesEmitted(count int) {
	m.FetchRoutesTotal.Add(float64(count))
}

// RecordLastSuccess marks now as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.FetchLastSuccessUnixtime.SetToCurrentTime()
}
