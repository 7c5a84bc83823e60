package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderGenAI     = "genai"
	ProviderAnthropic = "anthropic"
	ProviderEcho      = "echo"

	DefaultBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel        = "gemini-1.5-flash"
	DefaultEmojiDataURL = "https://cdn.jsdelivr.net/npm/@emoji-mart/data"
)

// Config is the only persisted config file schema.
type Config struct {
	Provider           string `toml:"provider"`
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	Model              string `toml:"model"`
	Language           string `toml:"language"`
	LogLevel           string `toml:"log_level,omitempty"`
	ThinkingDelayMS    int    `toml:"thinking_delay_ms"`
	EnterSendsMinWidth int    `toml:"enter_sends_min_width"`
	EmojiDataURL       string `toml:"emoji_data_url"`
	Source             string `toml:"-"`
}

func Default() Config {
	return Config{
		Provider:           ProviderGemini,
		BaseURL:            DefaultBaseURL,
		Model:              DefaultModel,
		Language:           "en",
		ThinkingDelayMS:    600,
		EnterSendsMinWidth: 60,
		EmojiDataURL:       DefaultEmojiDataURL,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatbot", "config.toml")
}

// ThinkingDelay is the cosmetic pause between the user bubble and the placeholder.
func (c Config) ThinkingDelay() time.Duration {
	if c.ThinkingDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.ThinkingDelayMS) * time.Millisecond
}

// ResolvedProvider falls back to the offline echo client when no key is configured.
func (c Config) ResolvedProvider() string {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	if provider != ProviderEcho && strings.TrimSpace(c.APIKey) == "" {
		return ProviderEcho
	}
	return provider
}

func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

// LoadFile reads path over the defaults without environment overrides, so
// a later Save never persists a key that only lived in the environment.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	switch cfg.Provider {
	case ProviderAnthropic:
		if env := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); env != "" {
			cfg.APIKey = env
		}
		if env := strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL")); env != "" {
			cfg.BaseURL = env
		}
	case ProviderOpenAI:
		if env := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); env != "" {
			cfg.APIKey = env
		}
		if env := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); env != "" {
			cfg.BaseURL = env
		}
	default:
		if env := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); env != "" {
			cfg.APIKey = env
		}
		if env := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")); env != "" {
			cfg.BaseURL = env
		}
	}
	return cfg
}
