package optimizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Optimizer re-encodes an audio payload into a smaller form suitable for
// upload to the transcription backend.
type Optimizer interface {
	Optimize(ctx context.Context, audio []byte) ([]byte, error)
}

// Config controls the ffmpeg re-encode.
type Config struct {
	FFmpegPath string
	Bitrate    string
	Timeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		FFmpegPath: "ffmpeg",
		Bitrate:    "32k",
		Timeout:    5 * time.Minute,
	}
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with %d: %s", name, exitErr.ExitCode(), stderr.String())
		}
		return err
	}
	return nil
}

// FFmpeg implements Optimizer by shelling out to ffmpeg, producing a mono
// 16 kHz low-bitrate MP3. Whisper downsamples internally, so the reduced
// rate costs no accuracy while shrinking uploads considerably.
type FFmpeg struct {
	config Config
	runner commandRunner
}

func NewFFmpeg(config Config) *FFmpeg {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.Bitrate == "" {
		config.Bitrate = "32k"
	}
	return &FFmpeg{config: config, runner: execRunner{}}
}

func (f *FFmpeg) Optimize(ctx context.Context, audio []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.config.Timeout)
		defer cancel()
	}

	tempDir, err := os.MkdirTemp("", "farsitranscriber-optimize-*")
	if err != nil {
		return nil, fmt.Errorf("create temp workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			log.Printf("optimizer: failed to remove temp workspace %s: %v", tempDir, err)
		}
	}()

	inPath := filepath.Join(tempDir, "input")
	outPath := filepath.Join(tempDir, "optimized.mp3")
	if err := os.WriteFile(inPath, audio, 0o600); err != nil {
		return nil, fmt.Errorf("write input file: %w", err)
	}

	start := time.Now()
	if err := f.runner.Run(ctx, f.config.FFmpegPath, buildArgs(inPath, outPath, f.config.Bitrate)...); err != nil {
		return nil, fmt.Errorf("ffmpeg re-encode: %w", err)
	}

	optimized, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read optimized file: %w", err)
	}

	log.Printf("optimizer: re-encoded %d -> %d bytes in %v", len(audio), len(optimized), time.Since(start))
	return optimized, nil
}

// buildArgs builds ffmpeg args for mono 16 kHz MP3 output.
func buildArgs(inPath, outPath, bitrate string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-b:a", bitrate,
		outPath,
	}
}
