package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// testMetrics is shared across the package's tests because promauto
// registers with the default registry and a second registration panics.
var testMetrics = NewWorkerMetrics()

func TestWorkerMetrics_RecordRun(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.FetchRunsTotal.WithLabelValues("success"))

	testMetrics.RecordRun("success")
	testMetrics.RecordRun("failure")
	testMetrics.RecordRun("success")

	got := testutil.ToFloat64(testMetrics.FetchRunsTotal.WithLabelValues("success"))
	if got != before+2 {
		t.Errorf("success runs = %v, want %v", got, before+2)
	}
	if f := testutil.ToFloat64(testMetrics.FetchRunsTotal.WithLabelValues("failure")); f < 1 {
		t.Errorf("failure runs = %v, want at least 1", f)
	}
}

func TestWorkerMetrics_RecordRoutesEmitted(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.FetchRoutesTotal)

	testMetrics.RecordRoutesEmitted(42)

	if got := testutil.ToFloat64(testMetrics.FetchRoutesTotal); got != before+42 {
		t.Errorf("routes total = %v, want %v", got, before+42)
	}
}

func TestWorkerMetrics_RecordLastSuccess(t *testing.T) {
	testMetrics.RecordLastSuccess()

	if got := testutil.ToFloat64(testMetrics.FetchLastSuccessUnixtime); got <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", got)
	}
}
