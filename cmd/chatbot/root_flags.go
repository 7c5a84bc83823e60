package main

import (
	"fmt"
	"strings"

	"chatbot-cli/internal/config"
	"chatbot-cli/internal/logger"

	"github.com/spf13/cobra"
)

// rootArgs 是所有子命令共享的配置来源与覆盖项。
type rootArgs struct {
	cfgPath   string
	overrides []string
	model     string
}

func (r *rootArgs) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&r.cfgPath, "config", "", "Path to config file (default ~/.chatbot/config.toml)")
	flags.StringArrayVarP(&r.overrides, "override", "c", nil, "Override config value key=value (repeatable)")
	flags.StringVar(&r.model, "model", "", "Model name (default from config)")
}

func (r *rootArgs) configPath() string {
	if strings.TrimSpace(r.cfgPath) != "" {
		return r.cfgPath
	}
	return config.DefaultPath()
}

// loadConfig 读取配置文件与环境变量，再套用命令行覆盖项。
func (r *rootArgs) loadConfig() (config.Config, error) {
	cfg, err := config.Load(r.configPath())
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	cfg = r.apply(cfg)
	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}

func (r *rootArgs) apply(cfg config.Config) config.Config {
	for _, raw := range r.overrides {
		next, err := config.Set(cfg, raw)
		if err != nil {
			log.Warnf("ignoring override %q: %v", raw, err)
			continue
		}
		cfg = next
	}
	if model := strings.TrimSpace(r.model); model != "" {
		cfg.Model = model
	}
	return cfg
}
