package transcriber

import (
	"bytes"
	"context"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter implements Adapter for the OpenAI Whisper API.
type OpenAIAdapter struct {
	client *openai.Client
	config Config
}

func NewOpenAIAdapter(config Config) *OpenAIAdapter {
	return &OpenAIAdapter{
		client: openai.NewClient(config.APIKey),
		config: config,
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, audioData []byte, filename string) (string, error) {
	return transcribe(ctx, a.client, a.config, audioData, filename, "openai-adapter")
}

// transcribe is shared by the OpenAI and Groq adapters; both speak the same
// audio transcription API.
func transcribe(ctx context.Context, client *openai.Client, config Config, audioData []byte, filename, tag string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The per-call timeout is separate from run-level cancellation: expiry
	// surfaces as a TransportError while a cancelled parent context passes
	// through as context.Canceled.
	parent := ctx
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	if filename == "" {
		filename = "audio.mp3"
	}

	req := openai.AudioRequest{
		Model:    config.Model,
		Reader:   bytes.NewReader(audioData),
		FilePath: filename,
		Language: config.Language,
		Format:   openai.AudioResponseFormatText,
	}

	start := time.Now()
	resp, err := client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("%s: API call failed after %v: %v", tag, duration, err)
		return "", classifyError(parent, err)
	}

	log.Printf("%s: transcribed %d bytes in %v", tag, len(audioData), duration)
	return resp.Text, nil
}
