// Package backend turns a Config into the agent.Client for its provider.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"chatbot-cli/internal/agent"
	anthropicmodel "chatbot-cli/internal/agent/anthropic"
	"chatbot-cli/internal/agent/gemini"
	genaimodel "chatbot-cli/internal/agent/genai"
	openaimodel "chatbot-cli/internal/agent/openai"
	"chatbot-cli/internal/config"
	"chatbot-cli/internal/logger"
)

// EchoPrefix 是离线 echo 后端的回复前缀。
const EchoPrefix = "echo: "

// Options 覆盖少量构建参数，零值即可用。
type Options struct {
	// HTTPClient 只用于 gemini 后端。
	HTTPClient *http.Client
}

// New 按 cfg.ResolvedProvider() 构建客户端。没有 API key 时回退到 echo。
func New(ctx context.Context, cfg config.Config, opts Options) (agent.Client, error) {
	provider := cfg.ResolvedProvider()
	log := logger.Named("backend").WithField("provider", provider)
	baseURL := baseURLFor(cfg)

	var (
		client agent.Client
		err    error
	)
	switch provider {
	case config.ProviderEcho:
		if strings.TrimSpace(cfg.Provider) != "" && cfg.Provider != config.ProviderEcho {
			log.Warnf("no api key for %s; using offline echo backend", cfg.Provider)
		}
		return agent.EchoClient{Prefix: EchoPrefix}, nil
	case config.ProviderGemini:
		client, err = gemini.New(gemini.Options{APIKey: cfg.APIKey, BaseURL: baseURL, Model: cfg.Model, HTTPClient: opts.HTTPClient})
	case config.ProviderGenAI:
		client, err = genaimodel.New(ctx, genaimodel.Options{APIKey: cfg.APIKey, BaseURL: baseURL, Model: cfg.Model})
	case config.ProviderOpenAI:
		client, err = openaimodel.New(openaimodel.Options{APIKey: cfg.APIKey, BaseURL: baseURL, Model: modelFor(cfg, openaimodel.DefaultModel)})
	case config.ProviderAnthropic:
		client, err = anthropicmodel.New(anthropicmodel.Options{APIKey: cfg.APIKey, BaseURL: baseURL, Model: modelFor(cfg, anthropicmodel.DefaultModel)})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s client: %w", provider, err)
	}
	info := client.Info()
	log.WithField("model", info.Model).Infof("backend ready")
	return client, nil
}

// BaseURL 是 cfg 实际请求的地址；空串表示使用 SDK 默认值。
func BaseURL(cfg config.Config) string {
	if cfg.ResolvedProvider() == config.ProviderEcho {
		return ""
	}
	return baseURLFor(cfg)
}

// baseURLFor 对非 Gemini 后端忽略默认的 Gemini 地址，交给 SDK 使用官方默认值。
func baseURLFor(cfg config.Config) string {
	base := strings.TrimSpace(cfg.BaseURL)
	switch cfg.ResolvedProvider() {
	case config.ProviderOpenAI, config.ProviderAnthropic:
		if base == config.DefaultBaseURL {
			return ""
		}
	}
	return base
}

// modelFor 同理：默认的 Gemini 模型名对其他厂商无意义。
func modelFor(cfg config.Config, fallback string) string {
	model := strings.TrimSpace(cfg.Model)
	if model == "" || model == config.DefaultModel {
		return fallback
	}
	return model
}
