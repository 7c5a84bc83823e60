// Package gemini talks to the generateContent REST endpoint directly.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/conversation"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
)

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

var _ agent.Client = (*Client)(nil)

func New(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		// no timeout: a send waits until the network layer resolves or ctx ends
		httpClient = &http.Client{}
	}
	return &Client{apiKey: key, baseURL: base, model: model, http: httpClient}, nil
}

func (c *Client) Info() agent.Info {
	return agent.Info{Provider: "gemini", Model: c.model}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

// Generate issues exactly one POST. There is no retry.
func (c *Client) Generate(ctx context.Context, turns []conversation.Turn) (string, error) {
	body, err := json.Marshal(buildRequest(turns))
	if err != nil {
		return "", &agent.NetworkError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", &agent.NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &agent.NetworkError{Err: redact(err, c.apiKey)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &agent.NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}
	return parseResponse(resp.StatusCode, raw)
}

func buildRequest(turns []conversation.Turn) request {
	out := request{Contents: make([]content, 0, len(turns))}
	for _, turn := range turns {
		c := content{Role: string(turn.Role), Parts: make([]part, 0, len(turn.Parts))}
		for _, p := range turn.Parts {
			if p.InlineData != nil {
				c.Parts = append(c.Parts, part{InlineData: &inlineData{
					Data:     p.InlineData.Data,
					MIMEType: p.InlineData.MIMEType,
				}})
				continue
			}
			text := p.Text
			c.Parts = append(c.Parts, part{Text: &text})
		}
		out.Contents = append(out.Contents, c)
	}
	return out
}

// parseResponse decodes first, like the browser client did: a body that is
// not JSON is a network-level failure even on a non-2xx status.
func parseResponse(status int, raw []byte) (string, error) {
	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &agent.NetworkError{Err: fmt.Errorf("decode response (status %d): %w", status, err)}
	}
	if status < 200 || status > 299 {
		msg := ""
		if decoded.Error != nil {
			msg = decoded.Error.Message
		}
		return "", &agent.APIError{StatusCode: status, Message: msg}
	}
	if decoded.Error != nil {
		return "", &agent.APIError{StatusCode: status, Message: decoded.Error.Message}
	}
	if len(decoded.Candidates) == 0 {
		return "", &agent.MalformedResponseError{Reason: "no candidates"}
	}
	first := decoded.Candidates[0].Content
	if first == nil || len(first.Parts) == 0 {
		return "", &agent.MalformedResponseError{Reason: "candidate has no parts"}
	}
	if first.Parts[0].Text == nil {
		return "", &agent.MalformedResponseError{Reason: "first part has no text"}
	}
	return *first.Parts[0].Text, nil
}

// redact keeps the API key out of error strings; net/http echoes the full URL.
func redact(err error, key string) error {
	msg := err.Error()
	if key == "" {
		return err
	}
	clean := strings.ReplaceAll(strings.ReplaceAll(msg, url.QueryEscape(key), "***"), key, "***")
	if clean == msg {
		return err
	}
	return &redactedError{msg: clean, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
