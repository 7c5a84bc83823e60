package emoji

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"chatbot-cli/internal/logger"
)

// maxDataSize 限制数据集大小，完整的 emoji-mart 数据约 500KB。
const maxDataSize = 16 * 1024 * 1024

// Fetch 下载并解析数据集。client 为空时使用 http.DefaultClient。
func Fetch(ctx context.Context, client *http.Client, url string) (*Dataset, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultDataURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build emoji request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch emoji data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch emoji data: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDataSize+1))
	if err != nil {
		return nil, fmt.Errorf("read emoji data: %w", err)
	}
	if len(raw) > maxDataSize {
		return nil, fmt.Errorf("emoji data exceeds %d bytes", maxDataSize)
	}
	return Parse(raw)
}

// LoadedMsg 携带异步加载结果；失败时 Dataset 为空，调用方继续用内置数据。
type LoadedMsg struct {
	Dataset *Dataset
	Err     error
}

// LoadCmd 在后台拉取数据集。
func LoadCmd(ctx context.Context, client *http.Client, url string) tea.Cmd {
	return func() tea.Msg {
		data, err := Fetch(ctx, client, url)
		if err != nil {
			logger.Named("emoji").Warnf("emoji dataset unavailable, using built-in set: %v", err)
			return LoadedMsg{Err: err}
		}
		logger.Named("emoji").Infof("emoji dataset loaded: %d entries", data.Len())
		return LoadedMsg{Dataset: data}
	}
}
