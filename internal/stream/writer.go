package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Writer frames progress events as server-sent events over a single HTTP
// response: "data: <one-line JSON>\n\n", flushed per frame so the client
// sees each event as it happens.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewWriter prepares w for event streaming and sets the SSE headers. It
// fails when the underlying ResponseWriter cannot flush incrementally.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one event frame. After a terminal event the writer refuses
// further frames so a stream can never carry two terminal events.
func (sw *Writer) Send(ev Event) error {
	if sw.closed {
		return fmt.Errorf("stream already ended with a terminal event")
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write event frame: %w", err)
	}
	sw.flusher.Flush()

	if ev.Terminal() {
		sw.closed = true
	}
	return nil
}
