package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/client"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/config"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/metrics"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/pipeline"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/server"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/testutil"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/transcriber"
)

// mockPipeline assembles a full local worker over mock backends.
func mockPipeline(tr *testutil.MockTranscriber, opt *testutil.MockOptimizer, imp *testutil.MockImprover, m *metrics.Metrics) *pipeline.Worker {
	chunked := transcriber.NewChunked(tr, 1<<20, m)
	return pipeline.NewWorker(chunked, opt, imp, m)
}

func TestLocalPipelineEndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	tr := &testutil.MockTranscriber{Reply: "salam"}
	opt := &testutil.MockOptimizer{}
	imp := &testutil.MockImprover{}
	o := pipeline.NewOrchestrator(mockPipeline(tr, opt, imp, m))

	jobs := []*pipeline.Job{
		pipeline.NewJob("a.mp3", []byte("first"), 0),
		pipeline.NewJob("b.mp3", []byte("second"), 1),
	}

	var events []stream.Event
	result, err := o.Run(context.Background(), jobs, pipeline.DefaultOptions(), func(ev stream.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "improved:salam\n\n---\n\nimproved:salam"
	if result.Combined != want {
		t.Errorf("Combined = %q, want %q", result.Combined, want)
	}

	if tr.CallCount() != 2 {
		t.Errorf("transcriber called %d times, want 2", tr.CallCount())
	}
	if opt.Calls != 2 || imp.Calls != 2 {
		t.Errorf("optimizer/improver calls = %d/%d, want 2/2", opt.Calls, imp.Calls)
	}
	for _, job := range jobs {
		if job.State() != pipeline.StateCompleted {
			t.Errorf("job %s state = %s, want completed", job.Name, job.State())
		}
	}

	// Each payload fits under the ceiling, so one chunk per job.
	if got := promtestutil.ToFloat64(m.ChunksTranscribed); got != 2 {
		t.Errorf("chunks transcribed = %v, want 2", got)
	}

	first, last := events[0], events[len(events)-1]
	if first.Status != stream.StatusStarting {
		t.Errorf("first event = %+v, want Starting", first)
	}
	if last.Status != stream.StatusComplete || last.Progress != 100 {
		t.Errorf("last event = %+v, want Complete/100", last)
	}
}

func TestServerClientRoundTrip(t *testing.T) {
	cfg := testutil.TestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tr := &testutil.MockTranscriber{Reply: "salam donya"}
	opt := &testutil.MockOptimizer{}
	worker := mockPipeline(tr, opt, &testutil.MockImprover{}, m)

	srv := server.New(config.NewManagerWithConfig(cfg), worker, m, reg)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := client.New(ts.URL)
	job := pipeline.NewJob("greeting.mp3", []byte("audio-bytes"), 0)

	var events []stream.Event
	result, err := c.Submit(context.Background(), job, pipeline.DefaultOptions(), func(ev stream.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.Text() != "improved:salam donya" {
		t.Errorf("Text() = %q, want improved:salam donya", result.Text())
	}
	if result.Original != "salam donya" {
		t.Errorf("Original = %q, want salam donya", result.Original)
	}
	if job.State() != pipeline.StateCompleted {
		t.Errorf("job state = %s, want completed", job.State())
	}
	if opt.Calls != 1 {
		t.Errorf("optimizer called %d times, want 1", opt.Calls)
	}

	if len(events) == 0 || events[0].Status != stream.StatusStarting {
		t.Fatalf("forwarded events = %+v, want Starting first", events)
	}
	progress := 0
	for _, ev := range events {
		if ev.Terminal() {
			t.Errorf("terminal event %+v forwarded as progress", ev)
		}
		if ev.Progress < progress {
			t.Errorf("progress went backwards: %+v", events)
		}
		progress = ev.Progress
	}
}

func TestBatchThroughSubmitter(t *testing.T) {
	sub := &testutil.MockSubmitter{
		Events: []stream.Event{{Status: stream.StatusTranscribing, Progress: 75}},
		Result: &stream.Result{Original: "salam"},
	}
	o := pipeline.NewOrchestrator(sub)

	jobs := []*pipeline.Job{
		pipeline.NewJob("b.mp3", nil, 1),
		pipeline.NewJob("a.mp3", nil, 0),
	}

	var events []stream.Event
	result, err := o.Run(context.Background(), jobs, pipeline.Options{}, func(ev stream.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.Join(sub.Jobs, ","); got != "a.mp3,b.mp3" {
		t.Errorf("submission order = %s, want a.mp3,b.mp3", got)
	}
	if want := "salam\n\n---\n\nsalam"; result.Combined != want {
		t.Errorf("Combined = %q, want %q", result.Combined, want)
	}

	var rescaled []int
	for _, ev := range events {
		if ev.Status == stream.StatusTranscribing {
			rescaled = append(rescaled, ev.Progress)
		}
	}
	if len(rescaled) != 2 || rescaled[0] != 37 || rescaled[1] != 87 {
		t.Errorf("rescaled progress = %v, want [37 87]", rescaled)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	content := `keywords = ["فارسی"]

[server]
address = "127.0.0.1"
port = 3000
max_upload_mb = 100
allowed_origins = ["http://localhost:5173"]

[transcription]
provider = "openai"
language = "fa"
model = "whisper-1"
chunk_mb = 24
timeout = "2m"

[optimization]
enabled = false

[improvement]
enabled = false

[providers.openai]
api_key = "sk-test"
`
	path := testutil.CreateTempConfigFile(t, content)

	var cfg config.Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.Transcription.Language != "fa" {
		t.Errorf("language = %q, want fa", cfg.Transcription.Language)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "فارسی" {
		t.Errorf("keywords = %v", cfg.Keywords)
	}
}
