package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/pipeline"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/stream"
)

// Client is the remote Submitter: it uploads a job to a transcription
// server and follows the SSE progress stream until a terminal event.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No overall timeout: the SSE stream stays open for the whole
		// run. Cancellation happens through the request context.
		httpClient: &http.Client{},
	}
}

func (c *Client) Submit(ctx context.Context, job *pipeline.Job, opts pipeline.Options, onEvent pipeline.EventFunc) (*stream.Result, error) {
	if onEvent == nil {
		onEvent = func(stream.Event) {}
	}

	job.SetState(pipeline.StateProcessing)
	defer job.Cleanup()

	req, err := c.buildRequest(ctx, job, opts)
	if err != nil {
		job.SetState(pipeline.StateError)
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, job, fmt.Errorf("submit %s: %w", job.Name, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, c.fail(ctx, job, fmt.Errorf("submit %s: server returned %d: %s", job.Name, resp.StatusCode, strings.TrimSpace(string(body))))
	}

	result, err := c.follow(ctx, resp.Body, onEvent)
	if err != nil {
		return nil, c.fail(ctx, job, err)
	}

	log.Printf("client: %s transcribed in %v", job.Name, time.Since(start))
	job.SetState(pipeline.StateCompleted)
	return result, nil
}

func (c *Client) buildRequest(ctx context.Context, job *pipeline.Job, opts pipeline.Options) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", job.Name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(job.Data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}

	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	if err := w.WriteField("options", string(optionsJSON)); err != nil {
		return nil, fmt.Errorf("write options field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "text/event-stream")

	return req, nil
}

// follow consumes the SSE stream, forwarding non-terminal events and
// converting the terminal event into a return value.
func (c *Client) follow(ctx context.Context, body io.Reader, onEvent pipeline.EventFunc) (*stream.Result, error) {
	reader := stream.NewReader(body)

	for {
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("stream ended without result")
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}

		if !ev.Terminal() {
			onEvent(ev)
			continue
		}

		switch ev.Status {
		case stream.StatusComplete:
			if ev.Result == nil {
				return nil, errors.New("complete event missing result")
			}
			return ev.Result, nil
		case stream.StatusCancelled:
			return nil, context.Canceled
		default:
			if ev.Error != "" {
				return nil, errors.New(ev.Error)
			}
			return nil, errors.New("transcription failed")
		}
	}
}

func (c *Client) fail(ctx context.Context, job *pipeline.Job, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		job.SetState(pipeline.StateCancelled)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	job.SetState(pipeline.StateError)
	return err
}
