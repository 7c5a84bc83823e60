// Package render owns the chat transcript: every user and bot message as a
// node addressed by ID, painted into styled terminal lines on demand.
package render

import (
	"strings"

	"chatbot-cli/internal/attachment"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

const (
	thumbCols = 24
	thumbRows = 8
)

var (
	userPrefixStyle  = lipgloss.NewStyle().Faint(true).Bold(true)
	userIndentStyle  = lipgloss.NewStyle().Faint(true)
	botPrefixStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	errorPrefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ErrorColor))
	attachmentStyle  = lipgloss.NewStyle().Faint(true)
	dotOnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	dotOffStyle      = lipgloss.NewStyle().Faint(true)
)

// Message is one rendered node. HTML holds the display fragment, never the
// raw model text.
type Message struct {
	ID         string
	Role       Role
	HTML       string
	Attachment *attachment.Attachment
	Thinking   bool
	Error      bool

	thumbnail string
}

// Renderer is owned by the UI loop and is not safe for concurrent use.
type Renderer struct {
	nodes  []*Message
	byID   map[string]*Message
	follow bool
}

func NewRenderer() *Renderer {
	return &Renderer{byID: map[string]*Message{}}
}

func (r *Renderer) add(m *Message) string {
	m.ID = uuid.NewString()
	r.nodes = append(r.nodes, m)
	r.byID[m.ID] = m
	r.follow = true
	return m.ID
}

// RenderUser appends the user's message. text is shown verbatim.
func (r *Renderer) RenderUser(text string, att *attachment.Attachment) string {
	m := &Message{Role: RoleUser, HTML: UserHTML(text)}
	if att != nil {
		copied := *att
		m.Attachment = &copied
		m.thumbnail = attachment.Thumbnail(copied, thumbCols, thumbRows)
	}
	return r.add(m)
}

// RenderBotPlaceholder appends a bot node in the thinking state.
func (r *Renderer) RenderBotPlaceholder() string {
	return r.add(&Message{Role: RoleBot, Thinking: true})
}

// FinalizeBot replaces the indicator of id with html and clears the
// thinking state. Unknown ids are ignored.
func (r *Renderer) FinalizeBot(id, html string, failed bool) {
	m, ok := r.byID[id]
	if !ok {
		return
	}
	m.HTML = html
	m.Thinking = false
	m.Error = failed
}

func (r *Renderer) ScrollToLatest() {
	r.follow = true
}

// ConsumeScroll reports and clears a pending scroll-to-latest request.
func (r *Renderer) ConsumeScroll() bool {
	f := r.follow
	r.follow = false
	return f
}

func (r *Renderer) Get(id string) (Message, bool) {
	m, ok := r.byID[id]
	if !ok {
		return Message{}, false
	}
	return *m, true
}

func (r *Renderer) Len() int {
	return len(r.nodes)
}

// Thinking reports whether any placeholder is still waiting.
func (r *Renderer) Thinking() bool {
	for _, m := range r.nodes {
		if m.Thinking {
			return true
		}
	}
	return false
}

// Lines paints the whole transcript at width. frame drives the thinking dots.
func (r *Renderer) Lines(width, frame int) []string {
	var buf Buffer
	for _, m := range r.nodes {
		switch m.Role {
		case RoleUser:
			buf.WriteLines(r.userLines(m, width)...)
		case RoleBot:
			buf.WriteLines(botLines(m, width, frame)...)
		}
		buf.Blank()
	}
	return LinesToStrings(buf.Lines)
}

func bodyLines(fragment string, width int, base lipgloss.Style) []Line {
	wrapWidth := width - 2
	if wrapWidth < 1 {
		wrapWidth = width
	}
	if width <= 0 {
		wrapWidth = 0
	}
	logical := paintHTML(fragment, base)
	for len(logical) > 0 && len(logical[len(logical)-1]) == 0 {
		logical = logical[:len(logical)-1]
	}
	var out []Line
	for _, spans := range logical {
		out = append(out, wrapSpans(spans, wrapWidth)...)
	}
	return out
}

func (r *Renderer) userLines(m *Message, width int) []Line {
	body := bodyLines(m.HTML, width, lipgloss.NewStyle())
	if m.Attachment != nil {
		label := m.Attachment.Label()
		body = append(body, Line{Spans: []Span{{Text: "📎 " + label, Style: attachmentStyle}}})
		if m.thumbnail != label {
			for _, row := range strings.Split(m.thumbnail, "\n") {
				body = append(body, Line{Spans: []Span{{Text: row, Raw: true}}})
			}
		}
	}
	if len(body) == 0 {
		body = []Line{{}}
	}
	return PrefixLines(body, Span{Text: "› ", Style: userPrefixStyle}, Span{Text: "  ", Style: userIndentStyle})
}

func botLines(m *Message, width, frame int) []Line {
	prefix := Span{Text: "• ", Style: botPrefixStyle}
	if m.Error {
		prefix.Style = errorPrefixStyle
	}
	if m.Thinking {
		return []Line{{Spans: append([]Span{prefix}, thinkingDots(frame)...)}}
	}
	body := bodyLines(m.HTML, width, lipgloss.NewStyle())
	if len(body) == 0 {
		body = []Line{{}}
	}
	return PrefixLines(body, prefix, Span{Text: "  "})
}

// thinkingDots 三个圆点依次高亮。
func thinkingDots(frame int) []Span {
	if frame < 0 {
		frame = -frame
	}
	spans := make([]Span, 0, 5)
	for i := 0; i < 3; i++ {
		if i > 0 {
			spans = append(spans, Span{Text: " "})
		}
		style := dotOffStyle
		if i == frame%3 {
			style = dotOnStyle
		}
		spans = append(spans, Span{Text: "●", Style: style})
	}
	return spans
}
