package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"strings"
)

const dataPrefix = "data: "

// maxFrameSize bounds a single event frame; transcripts ride inside the
// terminal frame, so this must comfortably exceed typical transcript sizes.
const maxFrameSize = 16 * 1024 * 1024

// Reader consumes a job's event stream lazily, one frame per Next call.
// It is single-pass and non-restartable. Malformed frames are logged and
// skipped; if the stream ends before a terminal event arrives, Next
// synthesizes an Error terminal event so callers never mistake a dropped
// connection for success.
type Reader struct {
	scanner *bufio.Scanner
	done    bool
}

// NewReader wraps the body of an event-stream response.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)
	return &Reader{scanner: scanner}
}

// Next returns the next event in the stream. It returns io.EOF after the
// terminal event has been delivered.
func (sr *Reader) Next() (Event, error) {
	if sr.done {
		return Event{}, io.EOF
	}

	for sr.scanner.Scan() {
		line := strings.TrimRight(sr.scanner.Text(), "\r")
		if line == "" {
			continue // frame separator
		}
		if !strings.HasPrefix(line, dataPrefix) {
			log.Printf("stream: skipping unrecognized frame: %q", truncate(line, 80))
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &ev); err != nil {
			log.Printf("stream: skipping malformed frame: %v", err)
			continue
		}

		if ev.Terminal() {
			sr.done = true
		}
		return ev, nil
	}

	sr.done = true
	if err := sr.scanner.Err(); err != nil {
		return Event{}, err
	}

	// Connection closed without a terminal event. Surface it as a failure
	// rather than letting the caller treat the silence as success.
	return Event{
		Status: StatusError,
		Error:  "stream ended without result",
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
