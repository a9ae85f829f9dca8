package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/pipeline"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
)

// sseServer replies to /api/transcribe with the given frames.
func sseServer(t *testing.T, frames []stream.Event, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transcribe" {
			http.NotFound(w, r)
			return
		}
		if inspect != nil {
			inspect(r)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range frames {
			payload, _ := json.Marshal(ev)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			w.(http.Flusher).Flush()
		}
	}))
}

func TestSubmit(t *testing.T) {
	var gotFilename, gotOptions string
	var gotFile []byte

	frames := []stream.Event{
		{Status: stream.StatusStarting, Progress: 0},
		{Status: stream.StatusUploading, Progress: 33},
		{Status: stream.StatusTranscribing, Progress: 75},
		{Status: stream.StatusComplete, Progress: 100, Result: &stream.Result{Original: "salam", Improved: "salam!"}},
	}
	srv := sseServer(t, frames, func(r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotFile, _ = io.ReadAll(file)
		gotOptions = r.FormValue("options")
	})
	defer srv.Close()

	c := New(srv.URL)
	job := pipeline.NewJob("voice.mp3", []byte("audio-bytes"), 0)

	var events []stream.Event
	result, err := c.Submit(context.Background(), job, pipeline.Options{Optimize: true, Improve: true}, func(ev stream.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.Original != "salam" || result.Improved != "salam!" {
		t.Errorf("result = %+v", result)
	}
	if job.State() != pipeline.StateCompleted {
		t.Errorf("job state = %s, want completed", job.State())
	}

	if gotFilename != "voice.mp3" {
		t.Errorf("uploaded filename = %q, want voice.mp3", gotFilename)
	}
	if string(gotFile) != "audio-bytes" {
		t.Errorf("uploaded file = %q", gotFile)
	}
	if !strings.Contains(gotOptions, `"optimizeAudio":true`) {
		t.Errorf("options field = %q, missing optimizeAudio", gotOptions)
	}

	// Only non-terminal events are forwarded.
	if len(events) != 3 {
		t.Fatalf("forwarded %d events, want 3: %+v", len(events), events)
	}
	if events[len(events)-1].Status != stream.StatusTranscribing {
		t.Errorf("last forwarded event = %+v", events[len(events)-1])
	}
}

func TestSubmit_ErrorFrame(t *testing.T) {
	frames := []stream.Event{
		{Status: stream.StatusUploading, Progress: 33},
		{Status: stream.StatusError, Progress: 0, Error: "transcription service error (429)"},
	}
	srv := sseServer(t, frames, nil)
	defer srv.Close()

	c := New(srv.URL)
	job := pipeline.NewJob("voice.mp3", []byte("x"), 0)

	_, err := c.Submit(context.Background(), job, pipeline.Options{}, nil)
	if err == nil {
		t.Fatal("Submit() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, should carry server message", err)
	}
	if job.State() != pipeline.StateError {
		t.Errorf("job state = %s, want error", job.State())
	}
}

func TestSubmit_CancelledFrame(t *testing.T) {
	frames := []stream.Event{
		{Status: stream.StatusCancelled, Error: "transcription cancelled"},
	}
	srv := sseServer(t, frames, nil)
	defer srv.Close()

	c := New(srv.URL)
	job := pipeline.NewJob("voice.mp3", []byte("x"), 0)

	_, err := c.Submit(context.Background(), job, pipeline.Options{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit() error = %v, want context.Canceled", err)
	}
	if job.State() != pipeline.StateCancelled {
		t.Errorf("job state = %s, want cancelled", job.State())
	}
}

func TestSubmit_StreamEndsWithoutResult(t *testing.T) {
	frames := []stream.Event{
		{Status: stream.StatusUploading, Progress: 33},
	}
	srv := sseServer(t, frames, nil)
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Submit(context.Background(), pipeline.NewJob("voice.mp3", []byte("x"), 0), pipeline.Options{}, nil)
	if err == nil {
		t.Fatal("Submit() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "without result") {
		t.Errorf("error = %v, want stream-ended error", err)
	}
}

func TestSubmit_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	c := New(srv.URL)
	job := pipeline.NewJob("voice.mp3", []byte("x"), 0)

	_, err := c.Submit(context.Background(), job, pipeline.Options{}, nil)
	if err == nil {
		t.Fatal("Submit() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "413") {
		t.Errorf("error = %v, should carry status code", err)
	}
	if job.State() != pipeline.StateError {
		t.Errorf("job state = %s, want error", job.State())
	}
}

func TestSubmit_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"status\":\"Uploading\",\"progress\":33}\n\n")
		w.(http.Flusher).Flush()
		cancel()
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL)
	job := pipeline.NewJob("voice.mp3", []byte("x"), 0)

	_, err := c.Submit(ctx, job, pipeline.Options{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit() error = %v, want context.Canceled", err)
	}
	if job.State() != pipeline.StateCancelled {
		t.Errorf("job state = %s, want cancelled", job.State())
	}
}

func TestSubmit_ServerUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1")
	job := pipeline.NewJob("voice.mp3", []byte("x"), 0)

	if _, err := c.Submit(context.Background(), job, pipeline.Options{}, nil); err == nil {
		t.Fatal("Submit() expected error, got nil")
	}
	if job.State() != pipeline.StateError {
		t.Errorf("job state = %s, want error", job.State())
	}
}
