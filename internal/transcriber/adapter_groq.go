package transcriber

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// GroqAdapter implements Adapter for Groq's OpenAI-compatible Whisper API.
type GroqAdapter struct {
	client *openai.Client
	config Config
}

func NewGroqAdapter(config Config) *GroqAdapter {
	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = "https://api.groq.com/openai/v1"

	return &GroqAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (a *GroqAdapter) Transcribe(ctx context.Context, audioData []byte, filename string) (string, error) {
	return transcribe(ctx, a.client, a.config, audioData, filename, "groq-adapter")
}
