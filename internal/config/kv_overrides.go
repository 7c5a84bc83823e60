package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys and malformed entries are skipped.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		next, err := Set(cfg, raw)
		if err != nil {
			continue
		}
		cfg = next
	}
	return cfg
}

// Set applies a single key=value assignment and reports what it could not parse.
func Set(cfg Config, raw string) (Config, error) {
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 {
		return cfg, fmt.Errorf("expected key=value, got %q", raw)
	}
	key := strings.TrimSpace(parts[0])
	val := strings.TrimSpace(parts[1])
	switch key {
	case "provider":
		cfg.Provider = strings.ToLower(val)
	case "api_key", "key":
		cfg.APIKey = val
	case "base_url", "url":
		cfg.BaseURL = val
	case "model":
		cfg.Model = val
	case "language", "lang":
		cfg.Language = val
	case "log_level":
		cfg.LogLevel = val
	case "emoji_data_url":
		cfg.EmojiDataURL = val
	case "thinking_delay_ms", "thinking_delay":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid %s %q", key, val)
		}
		cfg.ThinkingDelayMS = n
	case "enter_sends_min_width":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid %s %q", key, val)
		}
		cfg.EnterSendsMinWidth = n
	default:
		return cfg, fmt.Errorf("unknown config key %q", key)
	}
	return cfg, nil
}
