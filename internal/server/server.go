package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/config"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/metrics"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/pipeline"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
)

// Server exposes the transcription pipeline over HTTP. Progress streams
// back to the caller as server-sent events.
type Server struct {
	server    *http.Server
	manager   *config.Manager
	submitter pipeline.Submitter
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	startTime time.Time
}

func New(manager *config.Manager, submitter pipeline.Submitter, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	cfg := manager.GetConfig()

	s := &Server{
		manager:   manager,
		submitter: submitter,
		metrics:   m,
		gatherer:  gatherer,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler: s.withCORS(mux),
		// No WriteTimeout: SSE responses stay open for the whole run.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/transcribe", s.withMetrics("/api/transcribe", s.handleTranscribe))
	mux.HandleFunc("/health", s.withMetrics("/health", s.handleHealth))
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.withMetrics("/", s.handleRoot))
}

// Handler returns the full handler chain, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	log.Printf("server: listening on %s", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	log.Printf("server: shutting down")
	return s.server.Shutdown(ctx)
}

// withCORS enforces the configured origin allow-list.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.manager.GetConfig().Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// withMetrics wraps a handler with request metrics collection
func (s *Server) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(ww, r)

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, endpoint, fmt.Sprintf("%d", ww.statusCode), time.Since(start).Seconds())
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".ogg": true,
	".flac": true, ".aac": true, ".webm": true, ".mp4": true,
}

func isAudioUpload(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "audio/") || strings.HasPrefix(contentType, "video/") {
		return true
	}
	return audioExtensions[strings.ToLower(filepath.Ext(filename))]
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.manager.GetConfig()
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, fmt.Sprintf("file too large (limit %d MB)", cfg.Server.MaxUploadMB), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	opts := pipeline.DefaultOptions()
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			http.Error(w, "invalid options field", http.StatusBadRequest)
			return
		}
	}

	sw, err := stream.NewWriter(w)
	if err != nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sendEvent(sw, stream.Event{Status: stream.StatusStarting, Progress: 0})

	if !isAudioUpload(header.Header.Get("Content-Type"), header.Filename) {
		sendEvent(sw, stream.Event{Status: stream.StatusError, Progress: 0, Error: fmt.Sprintf("unsupported file type: %s", header.Filename)})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		sendEvent(sw, stream.Event{Status: stream.StatusError, Progress: 0, Error: "failed to read upload"})
		return
	}

	if s.metrics != nil {
		s.metrics.RecordJobSubmitted("http")
		s.metrics.RecordUpload(len(data))
	}

	job := pipeline.NewJob(header.Filename, data, 0)
	if path, err := spoolUpload(data, header.Filename); err == nil {
		job.AddArtifact(path)
	} else {
		log.Printf("server: failed to spool upload for %s: %v", header.Filename, err)
	}

	log.Printf("server: transcribing %s (%d bytes, optimize=%v improve=%v)",
		header.Filename, len(data), opts.Optimize, opts.Improve)

	start := time.Now()
	result, err := s.submitter.Submit(r.Context(), job, opts, func(ev stream.Event) {
		sendEvent(sw, ev)
	})

	switch {
	case err != nil && (errors.Is(err, context.Canceled) || r.Context().Err() != nil):
		log.Printf("server: %s cancelled by client", header.Filename)
		sendEvent(sw, stream.Event{Status: stream.StatusCancelled, Error: "transcription cancelled"})
		s.recordOutcome("cancelled", start)
	case err != nil:
		log.Printf("server: %s failed: %v", header.Filename, err)
		sendEvent(sw, stream.Event{Status: stream.StatusError, Progress: 0, Error: err.Error()})
		s.recordOutcome("error", start)
	default:
		sendEvent(sw, stream.Event{Status: stream.StatusComplete, Progress: 100, Result: result})
		s.recordOutcome("complete", start)
	}
}

// sendEvent writes one frame and logs a failure instead of dropping it
// silently. Frame write errors do not abort the handler: cancellation is
// detected through the request context instead.
func sendEvent(sw *stream.Writer, ev stream.Event) {
	if err := sw.Send(ev); err != nil {
		log.Printf("server: failed to write %s event: %v", ev.Status, err)
	}
}

func (s *Server) recordOutcome(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordJobCompleted(outcome, time.Since(start).Seconds())
	}
}

// spoolUpload writes the upload to a temp file so partial runs leave a
// recoverable copy until job cleanup removes it.
func spoolUpload(data []byte, filename string) (string, error) {
	f, err := os.CreateTemp("", "farsitranscriber-upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).String(),
		"service": map[string]interface{}{
			"name":    "farsitranscriber",
			"version": Version,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": "FarsiTranscriber",
		"version": Version,
		"endpoints": map[string]interface{}{
			"POST /api/transcribe": "Transcribe an audio file; progress streams back as server-sent events",
			"GET /health":          "Service health check",
			"GET /metrics":         "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiDoc)
}

// Version is the service version reported by / and /health.
var Version = "1.0.0"
