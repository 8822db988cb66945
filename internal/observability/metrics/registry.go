// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection metrics track upstream schedule fetching
var (
	// SchedulePagesFetchedTotal counts pages retrieved from each source family
	SchedulePagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_pages_fetched_total",
			Help: "Total number of result pages fetched from upstream schedule APIs",
		},
		[]string{"source"},
	)

	// ScheduleItemsFetchedTotal counts raw schedule records retrieved per source
	ScheduleItemsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_items_fetched_total",
			Help: "Total number of raw schedule records fetched from upstream APIs",
		},
		[]string{"source"},
	)

	// ScheduleFetchErrorsTotal counts aborted endpoint fetches by error class
	ScheduleFetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_fetch_errors_total",
			Help: "Total number of upstream fetch aborts by error type",
		},
		[]string{"source", "error_type"},
	)

	// ScheduleRecordsDroppedTotal counts single records dropped during normalization
	ScheduleRecordsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_records_dropped_total",
			Help: "Total number of records dropped during normalization",
		},
		[]string{"reason"}, // reason: no_code_mapping, empty_time, stale
	)

	// ScheduleCollectionDuration measures the wall time of one source's collection phase
	ScheduleCollectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schedule_collection_duration_seconds",
			Help:    "Time taken to collect one source family",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"source"},
	)
)

// Snapshot metrics track the emitted artifacts
var (
	// SnapshotAirports tracks the airport count of the last written snapshot
	SnapshotAirports = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_airports",
			Help: "Number of airports in the last written snapshot",
		},
	)

	// SnapshotDepartureRoutes tracks the departure route count of the last snapshot
	SnapshotDepartureRoutes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_departure_routes",
			Help: "Number of departure routes in the last written snapshot",
		},
	)

	// SnapshotArrivalRoutes tracks the arrival route count of the last snapshot
	SnapshotArrivalRoutes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_arrival_routes",
			Help: "Number of arrival routes in the last written snapshot",
		},
	)

	// SnapshotWritesTotal counts snapshot write attempts by status
	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_writes_total",
			Help: "Total number of snapshot write attempts",
		},
		[]string{"status"}, // status: success, failure
	)
)
