package metrics

import "time"

// RecordPageFetched records one successfully fetched result page and the
// number of raw items it carried.
func RecordPageFetched(source string, items int) {
	SchedulePagesFetchedTotal.WithLabelValues(source).Inc()
	if items > 0 {
		ScheduleItemsFetchedTotal.WithLabelValues(source).Add(float64(items))
	}
}

// RecordFetchError records an aborted endpoint fetch.
// errorType should be one of "transport", "envelope", "malformed_body".
func RecordFetchError(source, errorType string) {
	ScheduleFetchErrorsTotal.WithLabelValues(source, errorType).Inc()
}

// RecordRecordDropped records a single record dropped during normalization.
// Reason should be one of "no_code_mapping", "empty_time", "stale".
func RecordRecordDropped(reason string) {
	ScheduleRecordsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordCollectionDuration records the wall time of one source family's
// collection phase.
func RecordCollectionDuration(source string, duration time.Duration) {
	ScheduleCollectionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordSnapshot updates the snapshot gauges after a successful write.
func RecordSnapshot(airports, departureRoutes, arrivalRoutes int) {
	SnapshotAirports.Set(float64(airports))
	SnapshotDepartureRoutes.Set(float64(departureRoutes))
	SnapshotArrivalRoutes.Set(float64(arrivalRoutes))
}

// RecordSnapshotWrite records the outcome of a snapshot write attempt.
func RecordSnapshotWrite(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	SnapshotWritesTotal.WithLabelValues(status).Inc()
}
