package transcriber

import (
	"context"
	"fmt"
	"time"
)

// Adapter submits one audio payload to a transcription backend and returns
// the raw transcript text. Implementations must not retain the payload or
// mutate caller state beyond the outbound call.
type Adapter interface {
	Transcribe(ctx context.Context, audioData []byte, filename string) (string, error)
}

// Config selects and configures a transcription backend.
type Config struct {
	Provider string
	APIKey   string
	Language string
	Model    string
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Language: "fa",
		Model:    "whisper-1",
		Timeout:  2 * time.Minute,
	}
}

// NewAdapter creates the adapter for the configured provider.
func NewAdapter(config Config) (Adapter, error) {
	if config.Model == "" {
		config.Model = "whisper-1"
	}

	switch config.Provider {
	case "openai":
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIAdapter(config), nil

	case "groq":
		if config.APIKey == "" {
			return nil, fmt.Errorf("Groq API key required")
		}
		return NewGroqAdapter(config), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
