package agent

import (
	"context"
	"errors"

	"chatbot-cli/internal/conversation"
	"chatbot-cli/internal/logger"
)

// Client 定义远端生成接口。turns 是完整对话快照，远端不保存任何状态。
type Client interface {
	Generate(ctx context.Context, turns []conversation.Turn) (string, error)
	Info() Info
}

// Info 描述当前后端，用于日志与状态栏。
type Info struct {
	Provider string
	Model    string
}

// EchoClient is a fallback when no API key is available.
type EchoClient struct {
	Prefix string
}

var _ Client = EchoClient{}

func (c EchoClient) Generate(_ context.Context, turns []conversation.Turn) (string, error) {
	if len(turns) == 0 {
		return "", errors.New("no turns to echo")
	}
	last := turns[len(turns)-1]
	text := c.Prefix + last.Text()
	if last.HasInline() {
		text += "\n*(image received)*"
	}
	return text, nil
}

func (c EchoClient) Info() Info {
	return Info{Provider: "echo", Model: "echo"}
}

// ToAPITurns 将对话转换为日志摘要，内联数据只保留数量与字节数。
func ToAPITurns(turns []conversation.Turn) []logger.APITurn {
	out := make([]logger.APITurn, 0, len(turns))
	for _, turn := range turns {
		item := logger.APITurn{Role: string(turn.Role), Text: turn.Text()}
		for _, part := range turn.Parts {
			if part.InlineData == nil {
				continue
			}
			item.InlineParts++
			item.InlineBytes += len(part.InlineData.Data)
		}
		out = append(out, item)
	}
	return out
}
