package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ArashMohsenijam/FarsiTranscriber/internal/config"
)

// ConfigureResult holds the configuration result from the wizard
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// AllProviders is the list of supported backends
var AllProviders = []string{"openai", "groq"}

var providerDisplayNames = map[string]string{
	"openai": "OpenAI",
	"groq":   "Groq",
}

// Run starts the configuration wizard over the given config (defaults
// when nil) and returns the edited result without saving it.
func Run(existing *config.Config) (*ConfigureResult, error) {
	cfg := existing
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	clearScreen()
	fmt.Println(Logo())
	fmt.Println()

	if err := runProviders(cfg); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}
	if err := runTranscription(cfg); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}
	if err := runPipeline(cfg); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}
	if err := runServer(cfg); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}

	confirmed, err := showSummary(cfg)
	if err != nil || !confirmed {
		return &ConfigureResult{Cancelled: true}, nil
	}

	return &ConfigureResult{Config: cfg}, nil
}

func runProviders(cfg *config.Config) error {
	for _, provider := range AllProviders {
		current := cfg.Providers[provider].APIKey

		var key string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("%s API key", providerDisplayNames[provider])).
					Description(FormatKeyLabel(provider, current) + " • leave empty to keep/skip").
					EchoMode(huh.EchoModePassword).
					Value(&key),
			),
		).WithTheme(getTheme())

		if err := form.Run(); err != nil {
			return err
		}

		if key != "" {
			cfg.Providers[provider] = config.ProviderConfig{APIKey: strings.TrimSpace(key)}
		}
	}
	return nil
}

func runTranscription(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription provider").
				Options(
					huh.NewOption("OpenAI (whisper-1)", "openai"),
					huh.NewOption("Groq (whisper-large-v3)", "groq"),
				).
				Value(&cfg.Transcription.Provider),
			huh.NewInput().
				Title("Language code").
				Description("ISO-639-1, e.g. fa for Farsi").
				Value(&cfg.Transcription.Language),
			huh.NewInput().
				Title("Whisper model").
				Value(&cfg.Transcription.Model),
		),
	).WithTheme(getTheme())

	return form.Run()
}

func runPipeline(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Optimize audio with ffmpeg before upload?").
				Description("Re-encodes to mono 16 kHz MP3, shrinking uploads").
				Value(&cfg.Optimization.Enabled),
			huh.NewConfirm().
				Title("Improve transcripts with an LLM?").
				Description("Adds punctuation, fixes grammar, removes stutters").
				Value(&cfg.Improvement.Enabled),
		),
	).WithTheme(getTheme())

	return form.Run()
}

func runServer(cfg *config.Config) error {
	port := strconv.Itoa(cfg.Server.Port)
	origins := strings.Join(cfg.Server.AllowedOrigins, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server port").
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 || n > 65535 {
						return fmt.Errorf("invalid port: %s", s)
					}
					return nil
				}).
				Value(&port),
			huh.NewInput().
				Title("Allowed CORS origins").
				Description("Comma-separated, * for any").
				Value(&origins),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Server.Port, _ = strconv.Atoi(port)
	cfg.Server.AllowedOrigins = SplitOrigins(origins)
	return nil
}

func showSummary(cfg *config.Config) (bool, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Transcription: %s / %s (%s)\n", cfg.Transcription.Provider, cfg.Transcription.Model, cfg.Transcription.Language)
	fmt.Fprintf(&b, "Optimization:  %v\n", cfg.Optimization.Enabled)
	fmt.Fprintf(&b, "Improvement:   %v", cfg.Improvement.Enabled)
	if cfg.Improvement.Enabled {
		fmt.Fprintf(&b, " (%s / %s)", cfg.Improvement.Provider, cfg.Improvement.Model)
	}
	fmt.Fprintf(&b, "\nServer:        %s:%d", cfg.Server.Address, cfg.Server.Port)

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Description(b.String()).
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// FormatKeyLabel describes a stored API key without revealing it.
func FormatKeyLabel(provider, key string) string {
	if key == "" {
		return "not configured"
	}
	return fmt.Sprintf("configured (%s)", MaskKey(key))
}

// MaskKey hides all but the first and last few characters of a key.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// SplitOrigins parses a comma-separated origin list.
func SplitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
