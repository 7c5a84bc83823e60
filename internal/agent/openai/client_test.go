package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/conversation"
	"chatbot-cli/internal/logger"
)

func silenceRootLogger(t *testing.T) {
	t.Helper()
	root := logger.Root()
	prev := root.Out
	root.SetOutput(io.Discard)
	t.Cleanup(func() {
		root.SetOutput(prev)
	})
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"http://127.0.0.1:1234", "http://127.0.0.1:1234/v1"},
		{"http://127.0.0.1:1234/v1/", "http://127.0.0.1:1234/v1"},
		{"https://proxy.test/openai/v1/chat/completions", "https://proxy.test/openai/v1"},
		{"https://proxy.test/v1/v1", "https://proxy.test/v1"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeBaseURL(tc.in); got != tc.want {
			t.Fatalf("normalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	silenceRootLogger(t)

	type testCase struct {
		name       string
		statusCode int
		body       string
		wantText   string
		wantKind   agent.ErrorKind
		wantMsg    string
	}

	cases := []testCase{
		{
			name:       "success",
			statusCode: http.StatusOK,
			body:       `{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hi **there**"}}]}`,
			wantText:   "Hi **there**",
		},
		{
			name:       "no choices",
			statusCode: http.StatusOK,
			body:       `{"id":"c1","object":"chat.completion","created":0,"model":"gpt-4o-mini","choices":[]}`,
			wantKind:   agent.KindMalformed,
		},
		{
			name:       "api error",
			statusCode: http.StatusNotFound,
			body:       `{"error":{"message":"model not found","type":"invalid_request_error"}}`,
			wantKind:   agent.KindAPI,
			wantMsg:    "model not found",
		},
		{
			name:       "server error is not retried",
			statusCode: http.StatusInternalServerError,
			body:       `{"error":{"message":"boom"}}`,
			wantKind:   agent.KindAPI,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int64
			var gotBody []byte
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat/completions" {
					http.NotFound(w, r)
					return
				}
				calls.Add(1)
				gotBody, _ = io.ReadAll(r.Body)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)

			client, err := New(Options{APIKey: "test", BaseURL: srv.URL, Model: "gpt-4o-mini"})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			t.Cleanup(cancel)

			got, err := client.Generate(ctx, []conversation.Turn{
				{Role: conversation.RoleUser, Parts: []conversation.Part{conversation.TextPart("hi")}},
			})
			if calls.Load() != 1 {
				t.Fatalf("calls = %d, want 1", calls.Load())
			}
			if !strings.Contains(string(gotBody), `"model":"gpt-4o-mini"`) {
				t.Fatalf("request body = %s", gotBody)
			}
			if tc.wantKind == agent.KindNone {
				if err != nil {
					t.Fatalf("Generate() error: %v", err)
				}
				if got != tc.wantText {
					t.Fatalf("Generate() = %q, want %q", got, tc.wantText)
				}
				return
			}
			if kind := agent.Classify(err); kind != tc.wantKind {
				t.Fatalf("Classify(%v) = %q, want %q", err, kind, tc.wantKind)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error = %q, want it to include %q", err.Error(), tc.wantMsg)
			}
			var apiErr *agent.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode != tc.statusCode {
				t.Fatalf("StatusCode = %d, want %d", apiErr.StatusCode, tc.statusCode)
			}
		})
	}
}

func TestToChatMessages_ImageAsDataURL(t *testing.T) {
	msgs := toChatMessages([]conversation.Turn{
		{Role: conversation.RoleUser, Parts: []conversation.Part{
			conversation.TextPart("what is this"),
			conversation.InlinePart("QUJD", "image/png"),
		}},
		{Role: conversation.RoleModel, Parts: []conversation.Part{conversation.TextPart("a cat")}},
	})
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(raw)
	for _, want := range []string{`"role":"user"`, `"role":"assistant"`, `data:image/png;base64,QUJD`, `"what is this"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("messages JSON missing %s:\n%s", want, s)
		}
	}
}

func TestToChatMessages_ImageOnlyDropsEmptyText(t *testing.T) {
	msgs := toChatMessages([]conversation.Turn{
		{Role: conversation.RoleUser, Parts: []conversation.Part{
			conversation.TextPart(""),
			conversation.InlinePart("QUJD", "image/png"),
		}},
	})
	raw, err := json.Marshal(msgs)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if s := string(raw); strings.Contains(s, `"type":"text"`) || !strings.Contains(s, "data:image/png;base64,QUJD") {
		t.Fatalf("messages JSON = %s, want image part only", s)
	}
}

func TestMessageFromRaw(t *testing.T) {
	if got := messageFromRaw(`{"error":{"message":"nested"}}`); got != "nested" {
		t.Fatalf("nested = %q", got)
	}
	if got := messageFromRaw(`{"message":"flat"}`); got != "flat" {
		t.Fatalf("flat = %q", got)
	}
	if got := messageFromRaw(`not json`); got != "" {
		t.Fatalf("invalid = %q", got)
	}
}
