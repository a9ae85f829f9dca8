package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/client"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/config"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/deps"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/llm"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/metrics"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/optimizer"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/pipeline"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/server"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/transcriber"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/tui"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "farsitranscriber",
	Short: "Farsi audio transcription service powered by Whisper",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		transcribeCmd(),
		configureCmd(),
		statusCmd(),
		versionCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	manager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := manager.GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Optimization.Enabled {
		if status := deps.CheckFFmpeg(); !status.Installed {
			fmt.Fprintln(os.Stderr, "warning: ffmpeg not found in PATH, audio optimization will fail")
		}
	}

	worker, err := buildWorker(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := manager.StartWatching(ctx); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	defer manager.Stop()

	reg := worker.registry
	srv := server.New(manager, worker.worker, worker.metrics, reg)
	if err := srv.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// builtWorker bundles the pipeline worker with its metrics registry.
type builtWorker struct {
	worker   *pipeline.Worker
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

func buildWorker(cfg *config.Config) (*builtWorker, error) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	adapter, err := transcriber.NewAdapter(cfg.ToTranscriberConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}
	chunked := transcriber.NewChunked(adapter, cfg.ChunkBytes(), m)

	var opt optimizer.Optimizer
	if cfg.Optimization.Enabled {
		opt = optimizer.NewFFmpeg(cfg.ToOptimizerConfig())
	}

	var improver llm.Adapter
	if cfg.IsImprovementEnabled() {
		improver, err = llm.NewAdapter(cfg.ToLLMConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create improver: %w", err)
		}
	}

	return &builtWorker{
		worker:   pipeline.NewWorker(chunked, opt, improver, m),
		metrics:  m,
		registry: reg,
	}, nil
}

func transcribeCmd() *cobra.Command {
	var (
		serverURL string
		output    string
		optimize  bool
		improve   bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe [files...]",
		Short: "Transcribe audio files",
		Long: `Transcribe one or more audio files to Farsi text.

Files run through the pipeline in the order given; the combined
transcript keeps that order. With --server the work happens on a
remote farsitranscriber server, otherwise it runs locally.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(args, serverURL, output, pipeline.Options{Optimize: optimize, Improve: improve})
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Transcribe via a remote server instead of locally")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the combined transcript to a file")
	cmd.Flags().BoolVar(&optimize, "optimize", true, "Re-encode audio with ffmpeg before upload")
	cmd.Flags().BoolVar(&improve, "improve", true, "Clean up the transcript with an LLM")

	return cmd
}

func runTranscribe(paths []string, serverURL, output string, opts pipeline.Options) error {
	jobs := make([]*pipeline.Job, 0, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		jobs = append(jobs, pipeline.NewJob(filepath.Base(path), data, i))
	}

	var submitter pipeline.Submitter
	if serverURL != "" {
		submitter = client.New(serverURL)
	} else {
		cfg, err := config.LoadOrDefault()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		built, err := buildWorker(cfg)
		if err != nil {
			return err
		}
		submitter = built.worker
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orchestrator := pipeline.NewOrchestrator(submitter)
	result, err := orchestrator.Run(ctx, jobs, opts, func(ev stream.Event) {
		fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", ev.Progress, ev.Status)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("transcription cancelled")
		}
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(result.Combined), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "transcript written to %s\n", output)
		return nil
	}

	fmt.Println(result.Combined)
	return nil
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard.
This will guide you through setting up:
- Provider API keys (OpenAI, Groq)
- Transcription language and model
- Audio optimization and transcript improvement
- Server port and CORS origins`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.StyleSuccess.Render("Configuration saved successfully!"))
	return nil
}

func statusCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(serverURL)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "Server to check")

	return cmd
}

func runStatus(serverURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var health map[string]interface{}
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("unexpected response: %s", body)
	}

	fmt.Printf("status: %v\n", health["status"])
	fmt.Printf("uptime: %v\n", health["uptime"])
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("farsitranscriber %s\n", version)
		},
	}
}
