package pipeline

import (
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
)

// State tracks a job through its lifecycle.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateError      State = "error"
	StateCancelled  State = "cancelled"
)

// Job is one audio file moving through the pipeline. Order preserves the
// position the file had in the submitted batch regardless of completion
// order.
type Job struct {
	ID    uuid.UUID
	Name  string
	Data  []byte
	Order int

	mu        sync.Mutex
	state     State
	artifacts []string
	cleanup   sync.Once
}

func NewJob(name string, data []byte, order int) *Job {
	return &Job{
		ID:    uuid.New(),
		Name:  name,
		Data:  data,
		Order: order,
		state: StatePending,
	}
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) SetState(s State) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = s
}

// AddArtifact registers a temp file to be removed when the job finishes.
func (j *Job) AddArtifact(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.artifacts = append(j.artifacts, path)
}

// Cleanup removes registered artifacts. It runs at most once and never
// fails the job: removal errors are only logged.
func (j *Job) Cleanup() {
	j.cleanup.Do(func() {
		j.mu.Lock()
		artifacts := j.artifacts
		j.artifacts = nil
		j.mu.Unlock()

		for _, path := range artifacts {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("pipeline: failed to remove artifact %s for job %s: %v", path, j.ID, err)
				continue
			}
			log.Printf("pipeline: removed artifact %s for job %s", path, j.ID)
		}
	})
}
