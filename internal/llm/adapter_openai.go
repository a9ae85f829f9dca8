package llm

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter implements Adapter using OpenAI's chat completions API.
type OpenAIAdapter struct {
	client *openai.Client
	config Config
}

func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	return &OpenAIAdapter{
		client: openai.NewClient(cfg.APIKey),
		config: cfg,
	}
}

func (a *OpenAIAdapter) Process(ctx context.Context, text string) (string, error) {
	model := a.config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return process(ctx, a.client, a.config, model, text, "openai-llm-adapter")
}

// process is shared by the OpenAI and Groq adapters.
func process(ctx context.Context, client *openai.Client, cfg Config, model, text, tag string) (string, error) {
	if text == "" {
		return "", nil
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(cfg)},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(text, cfg.CustomPrompt)},
		},
		Temperature: 0.3, // low temperature for consistent cleanup
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("%s: API call failed after %v: %v", tag, duration, err)
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no response choices")
	}

	log.Printf("%s: processed %d chars in %v", tag, len(text), duration)
	return resp.Choices[0].Message.Content, nil
}
