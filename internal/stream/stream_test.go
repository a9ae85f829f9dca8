package stream

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriter_FrameFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if err := sw.Send(Event{Status: StatusUploading, Progress: 33}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}

	body := rec.Body.String()
	want := `data: {"status":"Uploading","progress":33}` + "\n\n"
	if body != want {
		t.Errorf("frame = %q, want %q", body, want)
	}
}

func TestWriter_RejectsFramesAfterTerminal(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	result := &Result{Original: "Salam"}
	if err := sw.Send(Event{Status: StatusComplete, Progress: 100, Result: result}); err != nil {
		t.Fatalf("Send(terminal) error = %v", err)
	}

	if err := sw.Send(Event{Status: StatusUploading, Progress: 10}); err == nil {
		t.Error("expected error sending after terminal event, got nil")
	}
}

func TestReader_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, _ := NewWriter(rec)

	events := []Event{
		{Status: StatusStarting, Progress: 0},
		{Status: StatusTranscribing, Progress: 75},
		{Status: StatusComplete, Progress: 100, Result: &Result{Original: "Salam", Improved: "Salam!"}},
	}
	for _, ev := range events {
		if err := sw.Send(ev); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	sr := NewReader(rec.Body)
	for i, want := range events {
		got, err := sr.Next()
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if got.Status != want.Status || got.Progress != want.Progress {
			t.Errorf("event #%d = %+v, want %+v", i, got, want)
		}
	}

	last := events[len(events)-1]
	if last.Result.Text() != "Salam!" {
		t.Errorf("Result.Text() = %q, want improved text", last.Result.Text())
	}

	if _, err := sr.Next(); err != io.EOF {
		t.Errorf("Next() after terminal = %v, want io.EOF", err)
	}
}

func TestReader_SkipsMalformedFrames(t *testing.T) {
	body := "data: {not json}\n\n" +
		"garbage line\n\n" +
		"data: {\"status\":\"Complete\",\"progress\":100,\"result\":{\"original\":\"ok\"}}\n\n"

	sr := NewReader(strings.NewReader(body))
	ev, err := sr.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if ev.Status != StatusComplete {
		t.Errorf("status = %s, want Complete", ev.Status)
	}
	if ev.Result == nil || ev.Result.Original != "ok" {
		t.Errorf("result = %+v, want original %q", ev.Result, "ok")
	}
}

func TestReader_SynthesizesErrorWhenStreamEndsEarly(t *testing.T) {
	body := "data: {\"status\":\"Uploading\",\"progress\":33}\n\n" +
		"data: {\"status\":\"Transcribing\",\"progress\":75}\n\n"

	sr := NewReader(strings.NewReader(body))

	var last Event
	for {
		ev, err := sr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		last = ev
	}

	if last.Status != StatusError {
		t.Fatalf("final status = %s, want synthesized Error", last.Status)
	}
	if last.Error != "stream ended without result" {
		t.Errorf("error message = %q", last.Error)
	}
}

func TestEvent_Terminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusStarting, false},
		{StatusUploading, false},
		{StatusOptimizing, false},
		{StatusTranscribing, false},
		{StatusImproving, false},
		{StatusComplete, true},
		{StatusError, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		if got := (Event{Status: tt.status}).Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
