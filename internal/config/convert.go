package config

import (
	"os"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/audio"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/llm"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/optimizer"
	"github.com/ArashMohsenijam/FarsiTranscriber/internal/transcriber"
)

var providerEnvVars = map[string]string{
	"openai": "OPENAI_API_KEY",
	"groq":   "GROQ_API_KEY",
}

// resolveAPIKeyForProvider returns the API key for a provider, checking the
// providers map first and falling back to the environment.
func (c *Config) resolveAPIKeyForProvider(providerName string) string {
	if c.Providers != nil {
		if pc, ok := c.Providers[providerName]; ok && pc.APIKey != "" {
			return pc.APIKey
		}
	}

	if envVar := providerEnvVars[providerName]; envVar != "" {
		return os.Getenv(envVar)
	}

	return ""
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Provider: c.Transcription.Provider,
		APIKey:   c.resolveAPIKeyForProvider(c.Transcription.Provider),
		Language: c.Transcription.Language,
		Model:    c.Transcription.Model,
		Timeout:  c.Transcription.Timeout,
	}
}

// ChunkBytes returns the chunk ceiling in bytes for oversized uploads.
func (c *Config) ChunkBytes() int {
	if c.Transcription.ChunkMB <= 0 {
		return audio.DefaultChunkSize
	}
	return c.Transcription.ChunkMB * 1024 * 1024
}

// MaxUploadBytes returns the HTTP request body ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) * 1024 * 1024
}

func (c *Config) ToOptimizerConfig() optimizer.Config {
	cfg := optimizer.DefaultConfig()
	if c.Optimization.FFmpegPath != "" {
		cfg.FFmpegPath = c.Optimization.FFmpegPath
	}
	if c.Optimization.Bitrate != "" {
		cfg.Bitrate = c.Optimization.Bitrate
	}
	return cfg
}

func (c *Config) ToLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:          c.Improvement.Provider,
		Model:             c.Improvement.Model,
		RemoveStutters:    c.Improvement.PostProcessing.RemoveStutters,
		AddPunctuation:    c.Improvement.PostProcessing.AddPunctuation,
		FixGrammar:        c.Improvement.PostProcessing.FixGrammar,
		RemoveFillerWords: c.Improvement.PostProcessing.RemoveFillerWords,
		Keywords:          c.Keywords,
	}

	if c.Improvement.Provider != "" {
		cfg.APIKey = c.resolveAPIKeyForProvider(c.Improvement.Provider)
	}

	if c.Improvement.CustomPrompt.Enabled && c.Improvement.CustomPrompt.Prompt != "" {
		cfg.CustomPrompt = c.Improvement.CustomPrompt.Prompt
	}

	return cfg
}

// IsImprovementEnabled returns true if LLM cleanup is enabled and configured
func (c *Config) IsImprovementEnabled() bool {
	return c.Improvement.Enabled && c.Improvement.Provider != "" && c.Improvement.Model != ""
}
