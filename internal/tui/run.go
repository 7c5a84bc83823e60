package tui

import (
	"context"
	"errors"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/agent/backend"
	"chatbot-cli/internal/config"
	"chatbot-cli/internal/conversation"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 运行后的必要信息。
type Result struct {
	History []conversation.Turn
}

// Run 封装 Bubble Tea 入口，返回最终的 UI 结果。
func Run(opts Options) (Result, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = ctx

	if opts.ConfigPath != "" && opts.Reloads == nil {
		opts.Reloads = watchConfig(ctx, opts)
	}

	programOptions := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if !opts.CopyableOutput {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	program := tea.NewProgram(New(opts), programOptions...)
	m, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return Result{}, err
	}
	tuiModel, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{History: tuiModel.History()}, nil
}

// watchConfig 在后台监听配置文件，每次变化都构建新的客户端。
func watchConfig(ctx context.Context, opts Options) <-chan ConfigReload {
	newClient := opts.NewClient
	if newClient == nil {
		httpClient := opts.HTTPClient
		newClient = func(ctx context.Context, cfg config.Config) (agent.Client, error) {
			return backend.New(ctx, cfg, backend.Options{HTTPClient: httpClient})
		}
	}
	adjust := opts.AdjustConfig
	if adjust == nil {
		adjust = func(cfg config.Config) config.Config { return cfg }
	}

	updates := make(chan ConfigReload)
	go func() {
		defer close(updates)
		err := config.Watch(ctx, opts.ConfigPath, func(cfg config.Config, err error) {
			msg := ConfigReload{Err: err}
			if err == nil {
				msg.Config = adjust(cfg)
				msg.Client, msg.Err = newClient(ctx, msg.Config)
			}
			select {
			case updates <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Warnf("config watch stopped")
		}
	}()
	return updates
}
