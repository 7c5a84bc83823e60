// Package chat runs one round trip per submission: record the user turn,
// call the backend with the whole transcript, then resolve the placeholder.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/attachment"
	"chatbot-cli/internal/conversation"
	"chatbot-cli/internal/format"
	"chatbot-cli/internal/logger"
)

// DefaultErrorPrefix leads the error fragment shown in a failed reply.
const DefaultErrorPrefix = "Oops! Something went wrong:"

// ErrEmptyInput is returned for a submission with no text and no attachment.
// Nothing is recorded and no request is made.
var ErrEmptyInput = errors.New("empty input")

// PendingInput is what the user composed, captured at submit time.
type PendingInput struct {
	Text       string
	Attachment *attachment.Attachment
}

func (in PendingInput) Empty() bool {
	return strings.TrimSpace(in.Text) == "" && in.Attachment == nil
}

// Outcome is the result of one Send, addressed to the placeholder id.
type Outcome struct {
	ID   string
	Text string
	HTML string
	Err  error
}

func (o Outcome) Failed() bool { return o.Err != nil }

// View is the part of the renderer the coordinator writes to.
type View interface {
	FinalizeBot(id, html string, failed bool)
	ScrollToLatest()
}

type Coordinator struct {
	history *conversation.History

	mu          sync.RWMutex
	client      agent.Client
	errorPrefix string
}

func NewCoordinator(history *conversation.History, client agent.Client) *Coordinator {
	if history == nil {
		history = conversation.NewHistory()
	}
	return &Coordinator{history: history, client: client, errorPrefix: DefaultErrorPrefix}
}

func (c *Coordinator) History() *conversation.History {
	return c.history
}

// SetClient swaps the backend. A send already in flight keeps the client it started with.
func (c *Coordinator) SetClient(client agent.Client) {
	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
}

func (c *Coordinator) Client() agent.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// SetErrorPrefix localizes the lead-in of failed replies.
func (c *Coordinator) SetErrorPrefix(prefix string) {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultErrorPrefix
	}
	c.mu.Lock()
	c.errorPrefix = prefix
	c.mu.Unlock()
}

// UserTurn builds the turn recorded for in. The text part always comes
// first, empty for an image-only message.
func UserTurn(in PendingInput) conversation.Turn {
	turn := conversation.Turn{
		Role:  conversation.RoleUser,
		Parts: []conversation.Part{conversation.TextPart(in.Text)},
	}
	if in.Attachment != nil {
		turn.Parts = append(turn.Parts, conversation.InlinePart(in.Attachment.Data, in.Attachment.MIMEType))
	}
	return turn
}

// Send records the user turn, then makes exactly one backend call with the
// full transcript. The user turn stays recorded when the call fails. On
// success the model turn stores the raw reply; the outcome carries the HTML.
// Send blocks until the backend answers or ctx ends.
func (c *Coordinator) Send(ctx context.Context, id string, in PendingInput) Outcome {
	if in.Empty() {
		return Outcome{ID: id, Err: ErrEmptyInput}
	}

	c.mu.RLock()
	client := c.client
	prefix := c.errorPrefix
	c.mu.RUnlock()

	log := logger.Named("chat").WithField("message_id", id)

	c.history.Append(UserTurn(in))
	snapshot := c.history.Snapshot()

	if client == nil {
		err := &agent.NetworkError{Err: errors.New("no backend configured")}
		log.Warnf("send skipped: %v", err)
		return Outcome{ID: id, HTML: format.Error(prefix, err.Error()), Err: err}
	}

	info := client.Info()
	logger.APILog.Request(info.Provider, info.Model, agent.ToAPITurns(snapshot))
	start := time.Now()
	text, err := client.Generate(ctx, snapshot)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		logger.APILog.Error(info.Provider, info.Model, err)
		log.WithField("kind", string(agent.Classify(err))).WithField("elapsed", elapsed).Warnf("send failed")
		return Outcome{ID: id, HTML: format.Error(prefix, err.Error()), Err: err}
	}

	logger.APILog.Response(info.Provider, info.Model, text)
	c.history.Append(conversation.Turn{
		Role:  conversation.RoleModel,
		Parts: []conversation.Part{conversation.TextPart(text)},
	})
	log.WithField("elapsed", elapsed).WithField("turns", c.history.Len()).Infof("send ok")
	return Outcome{ID: id, Text: text, HTML: format.Reply(text)}
}

// Resolve writes o into its placeholder and scrolls to it. Empty-input
// outcomes never had a placeholder and are ignored.
func Resolve(view View, o Outcome) {
	if view == nil || errors.Is(o.Err, ErrEmptyInput) {
		return
	}
	view.FinalizeBot(o.ID, o.HTML, o.Failed())
	view.ScrollToLatest()
}

// Kind names the failure class of an outcome, or "" on success.
func Kind(err error) string {
	return string(agent.Classify(err))
}
