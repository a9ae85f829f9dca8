package stream

// Status is the phase label carried by a progress event.
type Status string

const (
	StatusStarting     Status = "Starting"
	StatusUploading    Status = "Uploading"
	StatusOptimizing   Status = "Optimizing"
	StatusTranscribing Status = "Transcribing"
	StatusImproving    Status = "Improving"
	StatusComplete     Status = "Complete"
	StatusError        Status = "Error"
	StatusCancelled    Status = "Cancelled"
)

// Result is the payload of a successful terminal event. Improved is empty
// when transcript improvement was not requested or did not succeed.
type Result struct {
	Original string `json:"original"`
	Improved string `json:"improved,omitempty"`
}

// Text returns the improved transcript when present, the original otherwise.
func (r Result) Text() string {
	if r.Improved != "" {
		return r.Improved
	}
	return r.Original
}

// Event is one frame of a job's progress stream. A stream carries zero or
// more non-terminal events followed by exactly one terminal event.
type Event struct {
	Status   Status  `json:"status"`
	Progress int     `json:"progress"`
	Error    string  `json:"error,omitempty"`
	Result   *Result `json:"result,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	switch e.Status {
	case StatusComplete, StatusError, StatusCancelled:
		return true
	}
	return false
}
