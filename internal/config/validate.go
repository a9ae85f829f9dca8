package config

import "fmt"

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid server.max_upload_mb: %d", c.Server.MaxUploadMB)
	}

	if c.Transcription.Provider == "" {
		return fmt.Errorf("invalid transcription.provider: empty")
	}

	switch c.Transcription.Provider {
	case "openai":
		if c.resolveAPIKeyForProvider("openai") == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (providers.openai.api_key) or environment variable (OPENAI_API_KEY)")
		}
	case "groq":
		if c.resolveAPIKeyForProvider("groq") == "" {
			return fmt.Errorf("Groq API key required: not found in config (providers.groq.api_key) or environment variable (GROQ_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported transcription.provider: %s (must be openai or groq)", c.Transcription.Provider)
	}

	if c.Transcription.Language != "" && !isValidLanguageCode(c.Transcription.Language) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'fa', 'en', 'ar')", c.Transcription.Language)
	}
	if c.Transcription.Model == "" {
		return fmt.Errorf("invalid transcription.model: empty")
	}
	if c.Transcription.ChunkMB <= 0 || c.Transcription.ChunkMB >= 25 {
		return fmt.Errorf("invalid transcription.chunk_mb: %d (must be between 1 and 24)", c.Transcription.ChunkMB)
	}
	if c.Transcription.Timeout <= 0 {
		return fmt.Errorf("invalid transcription.timeout: %v", c.Transcription.Timeout)
	}

	if c.Optimization.Enabled && c.Optimization.FFmpegPath == "" {
		return fmt.Errorf("invalid optimization.ffmpeg_path: empty")
	}

	if c.Improvement.Enabled {
		if c.Improvement.Provider == "" {
			return fmt.Errorf("improvement.provider required when improvement.enabled = true")
		}
		if c.Improvement.Model == "" {
			return fmt.Errorf("improvement.model required when improvement.enabled = true")
		}

		validProviders := map[string]bool{"openai": true, "groq": true}
		if !validProviders[c.Improvement.Provider] {
			return fmt.Errorf("invalid improvement.provider: %s (must be openai or groq)", c.Improvement.Provider)
		}

		if c.resolveAPIKeyForProvider(c.Improvement.Provider) == "" {
			switch c.Improvement.Provider {
			case "openai":
				return fmt.Errorf("OpenAI API key required for improvement: not found in config (providers.openai.api_key) or environment variable (OPENAI_API_KEY)")
			case "groq":
				return fmt.Errorf("Groq API key required for improvement: not found in config (providers.groq.api_key) or environment variable (GROQ_API_KEY)")
			}
		}
	}

	return nil
}

func isValidLanguageCode(code string) bool {
	validCodes := map[string]bool{
		"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true,
		"ru": true, "ja": true, "ko": true, "zh": true, "ar": true, "hi": true,
		"nl": true, "sv": true, "da": true, "no": true, "fi": true, "pl": true,
		"tr": true, "he": true, "th": true, "vi": true, "id": true, "ms": true,
		"uk": true, "cs": true, "hu": true, "ro": true, "bg": true, "hr": true,
		"sk": true, "sl": true, "et": true, "lv": true, "lt": true, "mt": true,
		"cy": true, "ga": true, "eu": true, "ca": true, "gl": true, "is": true,
		"mk": true, "sq": true, "az": true, "be": true, "ka": true, "hy": true,
		"kk": true, "ky": true, "tg": true, "uz": true, "mn": true, "ne": true,
		"si": true, "km": true, "lo": true, "my": true, "fa": true, "ps": true,
		"ur": true, "bn": true, "ta": true, "te": true, "ml": true, "kn": true,
		"gu": true, "pa": true, "or": true, "as": true, "mr": true, "sa": true,
		"sw": true, "yo": true, "ig": true, "ha": true, "zu": true, "xh": true,
		"af": true, "am": true, "mg": true, "so": true, "sn": true, "rw": true,
	}
	return validCodes[code]
}
