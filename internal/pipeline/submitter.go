package pipeline

import (
	"context"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
)

// Options controls the optional stages of a transcription run.
type Options struct {
	Optimize bool `json:"optimizeAudio"`
	Improve  bool `json:"improveTranscription"`
}

// DefaultOptions enables the full pipeline.
func DefaultOptions() Options {
	return Options{Optimize: true, Improve: true}
}

// EventFunc receives non-terminal progress events while a job runs.
type EventFunc func(stream.Event)

// Submitter runs one job through the pipeline. Non-terminal progress is
// delivered through onEvent; the terminal outcome is the return value.
// Implementations: the local Worker and the remote HTTP client.
type Submitter interface {
	Submit(ctx context.Context, job *Job, opts Options, onEvent EventFunc) (*stream.Result, error)
}
