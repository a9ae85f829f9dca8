package llm

import (
	"context"
	"fmt"
	"time"
)

// Adapter runs a raw transcript through an LLM cleanup pass. Failures here
// are recoverable by design: callers fall back to the original text.
type Adapter interface {
	Process(ctx context.Context, text string) (string, error)
}

// Config holds improvement adapter configuration.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	Timeout           time.Duration
	AddPunctuation    bool
	RemoveStutters    bool
	FixGrammar        bool
	RemoveFillerWords bool
	CustomPrompt      string
	Keywords          []string
}

// NewAdapter creates an improvement adapter for the configured provider.
func NewAdapter(cfg Config) (Adapter, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAIAdapter(cfg), nil
	case "groq":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("Groq API key required")
		}
		return NewGroqAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported improvement provider: %s", cfg.Provider)
	}
}
