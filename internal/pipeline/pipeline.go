package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
)

// TranscriptSeparator joins per-file transcripts in the combined output.
const TranscriptSeparator = "\n\n---\n\n"

var ErrRunInProgress = errors.New("a transcription run is already in progress")

// JobResult pairs a finished job with its transcript.
type JobResult struct {
	Name   string
	Order  int
	Result *stream.Result
}

// RunResult is the outcome of a full batch run.
type RunResult struct {
	Results  []JobResult
	Combined string
}

// Orchestrator runs batches of jobs through a Submitter, one job at a
// time, in submission order. Only one run may be active at a time.
type Orchestrator struct {
	submitter Submitter

	mu      sync.Mutex
	running bool
}

func NewOrchestrator(s Submitter) *Orchestrator {
	return &Orchestrator{submitter: s}
}

// Run processes jobs sequentially and emits progress events rescaled to
// the whole batch. It aborts on the first failed job. The final Complete
// event carries the combined transcripts, per-file texts joined in
// submission order, raw and improved variants alike.
func (o *Orchestrator) Run(ctx context.Context, jobs []*Job, opts Options, onEvent EventFunc) (*RunResult, error) {
	if onEvent == nil {
		onEvent = func(stream.Event) {}
	}

	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	if len(jobs) == 0 {
		return nil, errors.New("no jobs to run")
	}

	ordered := make([]*Job, len(jobs))
	copy(ordered, jobs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	onEvent(stream.Event{Status: stream.StatusStarting, Progress: 0})

	n := len(ordered)
	results := make([]JobResult, 0, n)

	for i, job := range ordered {
		log.Printf("pipeline: processing job %d/%d: %s", i+1, n, job.Name)

		if err := ctx.Err(); err != nil {
			o.abortRemaining(ordered[i:])
			onEvent(stream.Event{Status: stream.StatusCancelled, Error: "transcription cancelled"})
			return nil, err
		}

		rescale := func(ev stream.Event) {
			ev.Progress = (i*100 + ev.Progress) / n
			onEvent(ev)
		}

		result, err := o.submitter.Submit(ctx, job, opts, rescale)
		if err != nil {
			o.abortRemaining(ordered[i+1:])
			if errors.Is(err, context.Canceled) {
				onEvent(stream.Event{Status: stream.StatusCancelled, Error: "transcription cancelled"})
			} else {
				onEvent(stream.Event{Status: stream.StatusError, Progress: 0, Error: err.Error()})
			}
			return nil, fmt.Errorf("job %s: %w", job.Name, err)
		}

		results = append(results, JobResult{Name: job.Name, Order: job.Order, Result: result})
	}

	combined := CombineResult(results)
	onEvent(stream.Event{
		Status:   stream.StatusComplete,
		Progress: 100,
		Result:   &combined,
	})

	return &RunResult{Results: results, Combined: combined.Text()}, nil
}

// CombineResult joins transcripts in submission order. Original always
// carries the raw concatenation; Improved carries the cleaned-up one
// (falling back per file to the raw text) when any file was improved.
func CombineResult(results []JobResult) stream.Result {
	sorted := make([]JobResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	originals := make([]string, 0, len(sorted))
	improved := make([]string, 0, len(sorted))
	anyImproved := false
	for _, r := range sorted {
		originals = append(originals, r.Result.Original)
		improved = append(improved, r.Result.Text())
		if r.Result.Improved != "" {
			anyImproved = true
		}
	}

	out := stream.Result{Original: strings.Join(originals, TranscriptSeparator)}
	if anyImproved {
		out.Improved = strings.Join(improved, TranscriptSeparator)
	}
	return out
}

// Combine returns the combined transcript, preferring improved text.
func Combine(results []JobResult) string {
	r := CombineResult(results)
	return r.Text()
}

// abortRemaining marks unstarted jobs cancelled and releases their
// artifacts.
func (o *Orchestrator) abortRemaining(jobs []*Job) {
	for _, job := range jobs {
		if job.State() == StatePending {
			job.SetState(StateCancelled)
		}
		job.Cleanup()
	}
}
