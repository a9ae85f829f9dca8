package config

import "time"

type Config struct {
	Server        ServerConfig              `toml:"server"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Optimization  OptimizationConfig        `toml:"optimization"`
	Improvement   ImprovementConfig         `toml:"improvement"`
	Providers     map[string]ProviderConfig `toml:"providers"`
	Keywords      []string                  `toml:"keywords"`
}

type ServerConfig struct {
	Address        string   `toml:"address"`
	Port           int      `toml:"port"`
	MaxUploadMB    int      `toml:"max_upload_mb"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type TranscriptionConfig struct {
	Provider string        `toml:"provider"`
	Language string        `toml:"language"`
	Model    string        `toml:"model"`
	ChunkMB  int           `toml:"chunk_mb"`
	Timeout  time.Duration `toml:"timeout"`
}

type OptimizationConfig struct {
	Enabled    bool   `toml:"enabled"`
	FFmpegPath string `toml:"ffmpeg_path"`
	Bitrate    string `toml:"bitrate"`
}

// ImprovementConfig configures the LLM cleanup phase that runs after
// transcription.
type ImprovementConfig struct {
	Enabled        bool                 `toml:"enabled"`
	Provider       string               `toml:"provider"`
	Model          string               `toml:"model"`
	PostProcessing PostProcessingConfig `toml:"post_processing"`
	CustomPrompt   CustomPromptConfig   `toml:"custom_prompt"`
}

type PostProcessingConfig struct {
	RemoveStutters    bool `toml:"remove_stutters"`
	AddPunctuation    bool `toml:"add_punctuation"`
	FixGrammar        bool `toml:"fix_grammar"`
	RemoveFillerWords bool `toml:"remove_filler_words"`
}

type CustomPromptConfig struct {
	Enabled bool   `toml:"enabled"`
	Prompt  string `toml:"prompt"`
}

// ProviderConfig holds the API key for a provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}
