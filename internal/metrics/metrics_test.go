package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordJobCompleted(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordJobCompleted("complete", 12.5)
	m.RecordJobCompleted("complete", 3.0)
	m.RecordJobCompleted("error", 1.0)

	if got := testutil.ToFloat64(m.JobsCompleted.WithLabelValues("complete")); got != 2 {
		t.Errorf("jobs completed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.JobsCompleted.WithLabelValues("error")); got != 1 {
		t.Errorf("jobs errored = %v, want 1", got)
	}
}

func TestRecordChunks(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordChunks(3)
	m.RecordChunks(1)

	if got := testutil.ToFloat64(m.ChunksTranscribed); got != 4 {
		t.Errorf("chunks transcribed = %v, want 4", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordHTTPRequest("POST", "/api/transcribe", "200", 0.5)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/transcribe", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances on separate registries must not collide.
	m1 := New(prometheus.NewRegistry())
	m2 := New(prometheus.NewRegistry())

	m1.RecordImprovementFallback()

	if got := testutil.ToFloat64(m2.ImprovementFallbacks); got != 0 {
		t.Errorf("second registry fallbacks = %v, want 0", got)
	}
}
