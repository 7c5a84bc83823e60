// Package genai adapts the Google Gen AI SDK to agent.Client.
package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/conversation"

	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-1.5-flash"
	apiVersion   = "v1beta"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *genai.Client
	model string
}

var _ agent.Client = (*Client)(nil)

func New(ctx context.Context, opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	cfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if base := splitBaseURL(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base, APIVersion: apiVersion}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: client, model: model}, nil
}

// splitBaseURL drops a trailing API version; the SDK appends its own.
func splitBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return ""
	}
	base = strings.TrimSuffix(base, "/"+apiVersion)
	return base + "/"
}

func (c *Client) Info() agent.Info {
	return agent.Info{Provider: "genai", Model: c.model}
}

func (c *Client) Generate(ctx context.Context, turns []conversation.Turn) (string, error) {
	contents, err := toContents(turns)
	if err != nil {
		return "", err
	}
	resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", wrapError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &agent.MalformedResponseError{Reason: "no candidates"}
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", &agent.MalformedResponseError{Reason: "candidate has no parts"}
	}
	first := content.Parts[0]
	if first.Text == "" && hasPayload(first) {
		return "", &agent.MalformedResponseError{Reason: "first part has no text"}
	}
	return first.Text, nil
}

// hasPayload reports whether p carries something other than text.
func hasPayload(p *genai.Part) bool {
	return p.InlineData != nil || p.FileData != nil ||
		p.FunctionCall != nil || p.FunctionResponse != nil ||
		p.ExecutableCode != nil || p.CodeExecutionResult != nil
}

// toContents 将对话转换为 SDK 内容。SDK 会丢弃空文本字段，
// 所以与图片同行的空文本段不发送，否则会变成空 part。
func toContents(turns []conversation.Turn) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(turns))
	for i, turn := range turns {
		c := &genai.Content{Role: string(turn.Role)}
		for _, p := range turn.Parts {
			if p.InlineData != nil {
				// the SDK re-encodes bytes itself
				raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, &agent.NetworkError{Err: fmt.Errorf("turn %d: inline %s payload: %w", i, p.InlineData.MIMEType, err)}
				}
				c.Parts = append(c.Parts, &genai.Part{InlineData: &genai.Blob{Data: raw, MIMEType: p.InlineData.MIMEType}})
				continue
			}
			if p.Text == "" && turn.HasInline() {
				continue
			}
			c.Parts = append(c.Parts, &genai.Part{Text: p.Text})
		}
		out = append(out, c)
	}
	return out, nil
}

func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &agent.APIError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &agent.APIError{StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return &agent.NetworkError{Err: err}
}
