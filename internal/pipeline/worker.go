package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/llm"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/metrics"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/optimizer"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/transcriber"
)

// Worker is the local Submitter: it drives one job through
// optimize -> transcribe -> improve against the configured backends.
type Worker struct {
	transcriber transcriber.Adapter
	optimizer   optimizer.Optimizer
	improver    llm.Adapter
	metrics     *metrics.Metrics
}

// NewWorker builds a Worker. optimizer and improver may be nil when the
// corresponding stage is disabled; metrics may be nil to skip recording.
func NewWorker(t transcriber.Adapter, o optimizer.Optimizer, i llm.Adapter, m *metrics.Metrics) *Worker {
	return &Worker{
		transcriber: t,
		optimizer:   o,
		improver:    i,
		metrics:     m,
	}
}

func (w *Worker) Submit(ctx context.Context, job *Job, opts Options, onEvent EventFunc) (*stream.Result, error) {
	if onEvent == nil {
		onEvent = func(stream.Event) {}
	}

	job.SetState(StateProcessing)
	defer job.Cleanup()

	onEvent(stream.Event{Status: stream.StatusUploading, Progress: 33})

	data := job.Data
	if opts.Optimize && w.optimizer != nil {
		onEvent(stream.Event{Status: stream.StatusOptimizing, Progress: 50})

		start := time.Now()
		optimized, err := w.optimizer.Optimize(ctx, data)
		if err != nil {
			return nil, w.fail(job, fmt.Errorf("optimize %s: %w", job.Name, err))
		}
		if w.metrics != nil {
			w.metrics.RecordOptimize(time.Since(start).Seconds())
		}
		data = optimized
	}

	onEvent(stream.Event{Status: stream.StatusTranscribing, Progress: 75})

	start := time.Now()
	text, err := w.transcriber.Transcribe(ctx, data, job.Name)
	if err != nil {
		return nil, w.fail(job, fmt.Errorf("transcribe %s: %w", job.Name, err))
	}
	if w.metrics != nil {
		w.metrics.RecordTranscription(time.Since(start).Seconds())
	}

	result := &stream.Result{Original: text}

	if opts.Improve && w.improver != nil {
		onEvent(stream.Event{Status: stream.StatusImproving, Progress: 90})

		start := time.Now()
		improved, err := w.improver.Process(ctx, text)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, w.fail(job, fmt.Errorf("improve %s: %w", job.Name, err))
		case err != nil:
			// Improvement is best-effort: keep the raw transcript.
			log.Printf("worker: improvement failed for %s, using raw transcript: %v", job.Name, err)
			if w.metrics != nil {
				w.metrics.RecordImprovementFallback()
			}
		default:
			if w.metrics != nil {
				w.metrics.RecordImprovement(time.Since(start).Seconds())
			}
			result.Improved = improved
		}
	}

	job.SetState(StateCompleted)
	return result, nil
}

func (w *Worker) fail(job *Job, err error) error {
	if errors.Is(err, context.Canceled) {
		job.SetState(StateCancelled)
	} else {
		job.SetState(StateError)
	}
	return err
}
