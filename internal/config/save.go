package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Save writes the configuration to the config file path.
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveDefaultConfig writes a commented default configuration.
func SaveDefaultConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	configContent := `# FarsiTranscriber Configuration
# This file is automatically generated with defaults.
# Edit values as needed - changes are applied immediately without server restart.

# HTTP Server Configuration
[server]
  address = "0.0.0.0"                          # Listen address
  port = 3000                                  # Listen port
  max_upload_mb = 100                          # Maximum upload size in MB
  allowed_origins = ["http://localhost:5173"]  # CORS allow-list

# Speech Transcription Configuration
[transcription]
  provider = "openai"          # Transcription service ("openai" or "groq")
  language = "fa"              # Language code ("fa" for Farsi)
  model = "whisper-1"          # Whisper model name
  chunk_mb = 24                # Chunk size for oversized audio (must stay under the 25 MB API limit)
  timeout = "2m"               # Per-request timeout (e.g., "30s", "2m")

# Audio Optimization Configuration
[optimization]
  enabled = true               # Re-encode audio with ffmpeg before upload
  ffmpeg_path = "ffmpeg"       # Path to the ffmpeg binary
  bitrate = "32k"              # Output bitrate for the optimized MP3

# Transcript Improvement Configuration
[improvement]
  enabled = true               # Clean up transcripts with an LLM after transcription
  provider = "openai"          # LLM service ("openai" or "groq")
  model = "gpt-4o-mini"        # Chat model name

[improvement.post_processing]
  remove_stutters = true
  add_punctuation = true
  fix_grammar = true
  remove_filler_words = true

# Provider API keys (or set OPENAI_API_KEY / GROQ_API_KEY environment variables)
[providers.openai]
  api_key = ""

# Keywords helping the cleanup pass spell domain terms correctly
keywords = []
`

	if _, err := file.WriteString(configContent); err != nil {
		return fmt.Errorf("failed to write config content: %w", err)
	}

	return nil
}
