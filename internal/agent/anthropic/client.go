package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/conversation"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *anthropic.Client
	model string
}

var _ agent.Client = (*Client)(nil)

func New(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("missing ANTHROPIC_API_KEY")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if base := normalizeBaseURL(opts.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	client := anthropic.NewClient(reqOpts...)
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: &client, model: model}, nil
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		base = strings.TrimSuffix(base, "/v1")
		base = strings.TrimRight(base, "/")
	}
	return base + "/"
}

func (c *Client) Info() agent.Info {
	return agent.Info{Provider: "anthropic", Model: c.model}
}

func (c *Client) Generate(ctx context.Context, turns []conversation.Turn) (string, error) {
	msg, err := c.api.Messages.New(ctx, buildMessageParams(turns, anthropic.Model(c.model)))
	if err != nil {
		return "", wrapError(err)
	}
	text, ok := extractText(msg.Content)
	if !ok {
		return "", &agent.MalformedResponseError{Reason: "no text block"}
	}
	return text, nil
}

func buildMessageParams(turns []conversation.Turn, model anthropic.Model) anthropic.MessageNewParams {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, turn := range turns {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			if p.InlineData != nil {
				blocks = append(blocks, anthropic.NewImageBlockBase64(p.InlineData.MIMEType, p.InlineData.Data))
				continue
			}
			if strings.TrimSpace(p.Text) == "" {
				continue
			}
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		}
		if len(blocks) == 0 {
			continue
		}
		if turn.Role == conversation.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(blocks...))
	}
	return anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		Messages:  messages,
	}
}

func extractText(blocks []anthropic.ContentBlockUnion) (string, bool) {
	var sb strings.Builder
	found := false
	for _, block := range blocks {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(v.Text)
			found = true
		}
	}
	return sb.String(), found
}

func wrapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return &agent.APIError{StatusCode: apiErr.StatusCode, Message: messageFromRaw(apiErr.RawJSON())}
	}
	return &agent.NetworkError{Err: err}
}

// messageFromRaw reads {"type":"error","error":{"message":..}}.
func messageFromRaw(raw string) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &body); err != nil {
		return ""
	}
	if body.Error.Message != "" {
		return body.Error.Message
	}
	return body.Message
}
