package config

import "time"

// DefaultConfig returns the initial configuration used when no config
// file exists yet.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        "0.0.0.0",
			Port:           3000,
			MaxUploadMB:    100,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Transcription: TranscriptionConfig{
			Provider: "openai",
			Language: "fa",
			Model:    "whisper-1",
			ChunkMB:  24,
			Timeout:  2 * time.Minute,
		},
		Optimization: OptimizationConfig{
			Enabled:    true,
			FFmpegPath: "ffmpeg",
			Bitrate:    "32k",
		},
		Improvement: ImprovementConfig{
			Enabled:  true,
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Providers: make(map[string]ProviderConfig),
		Keywords:  nil,
	}
}

// applyImprovementDefaults enables all cleanup passes when none is
// explicitly configured.
func (c *Config) applyImprovementDefaults() {
	pp := &c.Improvement.PostProcessing
	if !pp.RemoveStutters && !pp.AddPunctuation && !pp.FixGrammar && !pp.RemoveFillerWords {
		pp.RemoveStutters = true
		pp.AddPunctuation = true
		pp.FixGrammar = true
		pp.RemoveFillerWords = true
	}
}

func (c *Config) applyServerDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 100
	}
}

func (c *Config) applyTranscriptionDefaults() {
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "openai"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "fa"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-1"
	}
	if c.Transcription.ChunkMB == 0 {
		c.Transcription.ChunkMB = 24
	}
	if c.Transcription.Timeout == 0 {
		c.Transcription.Timeout = 2 * time.Minute
	}
}
