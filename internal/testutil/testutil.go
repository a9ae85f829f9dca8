package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/config"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/pipeline"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:        "127.0.0.1",
			Port:           3000,
			MaxUploadMB:    100,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Transcription: config.TranscriptionConfig{
			Provider: "openai",
			Language: "fa",
			Model:    "whisper-1",
			ChunkMB:  24,
			Timeout:  2 * time.Minute,
		},
		Optimization: config.OptimizationConfig{
			Enabled:    true,
			FFmpegPath: "ffmpeg",
			Bitrate:    "32k",
		},
		Improvement: config.ImprovementConfig{
			Enabled:  true,
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Providers: map[string]config.ProviderConfig{
			"openai": {APIKey: "test-api-key"},
		},
	}
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// MockTranscriber implements transcriber.Adapter with a canned reply.
type MockTranscriber struct {
	mu    sync.Mutex
	Reply string
	Err   error
	Calls [][]byte
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioData []byte, filename string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, audioData)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockOptimizer implements optimizer.Optimizer, prefixing the payload so
// tests can verify the optimized bytes flowed downstream.
type MockOptimizer struct {
	Err   error
	Calls int
}

func (m *MockOptimizer) Optimize(ctx context.Context, audio []byte) ([]byte, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]byte("optimized:"), audio...), nil
}

// MockImprover implements llm.Adapter.
type MockImprover struct {
	Reply string
	Err   error
	Calls int
}

func (m *MockImprover) Process(ctx context.Context, text string) (string, error) {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return "improved:" + text, nil
}

// MockSubmitter implements pipeline.Submitter, emitting the configured
// events before returning.
type MockSubmitter struct {
	mu     sync.Mutex
	Events []stream.Event
	Result *stream.Result
	Err    error
	Jobs   []string
}

func (m *MockSubmitter) Submit(ctx context.Context, job *pipeline.Job, opts pipeline.Options, onEvent pipeline.EventFunc) (*stream.Result, error) {
	m.mu.Lock()
	m.Jobs = append(m.Jobs, job.Name)
	m.mu.Unlock()

	for _, ev := range m.Events {
		onEvent(ev)
	}
	if m.Err != nil {
		job.SetState(pipeline.StateError)
		return nil, m.Err
	}
	job.SetState(pipeline.StateCompleted)
	return m.Result, nil
}
