package openai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/conversation"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const DefaultModel = "gpt-4o-mini"

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *openai.Client
	model string
}

// 确保Client实现了agent.Client接口
var _ agent.Client = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// one attempt per user submission
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(normalizeBaseURL(base), "/")+"/"))
	}
	client := openai.NewClient(cfg...)

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: &client, model: model}, nil
}

func (c *Client) Info() agent.Info {
	return agent.Info{Provider: "openai", Model: c.model}
}

func (c *Client) Generate(ctx context.Context, turns []conversation.Turn) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: toChatMessages(turns),
	}
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapHTTPError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &agent.MalformedResponseError{Reason: "no completion choices returned"}
	}
	return resp.Choices[0].Message.Content, nil
}

// toChatMessages maps model turns to assistant messages. Inline images
// travel as data: URLs, the only inline form chat completions accept.
func toChatMessages(turns []conversation.Turn) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		if turn.Role == conversation.RoleModel {
			out = append(out, openai.AssistantMessage(turn.Text()))
			continue
		}
		if !turn.HasInline() {
			out = append(out, openai.UserMessage(turn.Text()))
			continue
		}
		parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			if p.InlineData != nil {
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: "data:" + p.InlineData.MIMEType + ";base64," + p.InlineData.Data,
				}))
				continue
			}
			if p.Text == "" {
				continue
			}
			parts = append(parts, openai.TextContentPart(p.Text))
		}
		out = append(out, openai.UserMessage(parts))
	}
	return out
}

func wrapHTTPError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = messageFromRaw(apiErr.RawJSON())
		}
		return &agent.APIError{StatusCode: apiErr.StatusCode, Message: msg}
	}
	// transport failures and undecodable bodies
	return &agent.NetworkError{Err: err}
}

// messageFromRaw accepts both {"error":{"message":..}} and {"message":..},
// the latter being what most proxies send back.
func messageFromRaw(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return ""
	}
	if body.Error != nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return body.Message
}
