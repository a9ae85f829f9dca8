package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcription service
type Metrics struct {
	// Job metrics
	JobsSubmitted *prometheus.CounterVec
	JobsCompleted *prometheus.CounterVec
	JobDuration   prometheus.Histogram

	// Pipeline stage metrics
	OptimizeDuration      prometheus.Histogram
	TranscriptionDuration prometheus.Histogram
	ImprovementDuration   prometheus.Histogram
	ImprovementFallbacks  prometheus.Counter

	// Audio chunking metrics
	ChunksTranscribed prometheus.Counter
	UploadSize        prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all metrics registered against the given registerer. Tests
// pass a fresh prometheus.NewRegistry to avoid global registry collisions.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farsitranscriber_jobs_submitted_total",
			Help: "Total number of transcription jobs submitted",
		}, []string{"source"}),
		JobsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farsitranscriber_jobs_completed_total",
			Help: "Total number of transcription jobs finished, by outcome",
		}, []string{"outcome"}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "farsitranscriber_job_duration_seconds",
			Help:    "End-to-end duration of a transcription job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68 minutes
		}),

		OptimizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "farsitranscriber_optimize_duration_seconds",
			Help:    "Duration of the ffmpeg optimization stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "farsitranscriber_transcription_duration_seconds",
			Help:    "Duration of Whisper API calls",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~8 minutes
		}),
		ImprovementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "farsitranscriber_improvement_duration_seconds",
			Help:    "Duration of LLM cleanup calls",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ImprovementFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "farsitranscriber_improvement_fallbacks_total",
			Help: "Total jobs that fell back to the raw transcript after a failed cleanup",
		}),

		ChunksTranscribed: factory.NewCounter(prometheus.CounterOpts{
			Name: "farsitranscriber_chunks_transcribed_total",
			Help: "Total number of audio chunks sent for transcription",
		}),
		UploadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "farsitranscriber_upload_size_bytes",
			Help:    "Size of uploaded audio files in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 2, 12), // 64KB to ~128MB
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farsitranscriber_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "farsitranscriber_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordJobSubmitted records a newly submitted job
func (m *Metrics) RecordJobSubmitted(source string) {
	m.JobsSubmitted.WithLabelValues(source).Inc()
}

// RecordJobCompleted records a finished job and its total duration
func (m *Metrics) RecordJobCompleted(outcome string, durationSeconds float64) {
	m.JobsCompleted.WithLabelValues(outcome).Inc()
	m.JobDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordOptimize(durationSeconds float64) {
	m.OptimizeDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordTranscription(durationSeconds float64) {
	m.TranscriptionDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordImprovement(durationSeconds float64) {
	m.ImprovementDuration.Observe(durationSeconds)
}

func (m *Metrics) RecordImprovementFallback() {
	m.ImprovementFallbacks.Inc()
}

func (m *Metrics) RecordChunks(count int) {
	m.ChunksTranscribed.Add(float64(count))
}

func (m *Metrics) RecordUpload(sizeBytes int) {
	m.UploadSize.Observe(float64(sizeBytes))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
