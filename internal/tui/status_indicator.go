package tui

import (
	"fmt"
	"time"

	"chatbot-cli/internal/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StatusIndicatorState 枚举了状态指示器可显示的所有状态。
type StatusIndicatorState int

const (
	// StatusIdle 表示空闲，不显示状态行。
	StatusIdle StatusIndicatorState = iota
	// StatusThinking 覆盖用户消息出现到占位符出现之间的停顿。
	StatusThinking
	// StatusWaiting 表示请求已发出，等待远端回复。
	StatusWaiting
	// StatusError 表示上一次请求失败，计时停止。
	StatusError
)

func (s StatusIndicatorState) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusThinking:
		return "thinking"
	case StatusWaiting:
		return "waiting"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

func (s StatusIndicatorState) defaultHeader() string {
	switch s {
	case StatusThinking:
		return "Thinking"
	case StatusWaiting:
		return "Waiting for reply"
	case StatusError:
		return "Failed"
	default:
		return ""
	}
}

func (s StatusIndicatorState) tracksElapsed() bool {
	return s == StatusThinking || s == StatusWaiting
}

func (s StatusIndicatorState) visible() bool {
	return s != StatusIdle
}

func (s StatusIndicatorState) valid() bool {
	switch s {
	case StatusIdle, StatusThinking, StatusWaiting, StatusError:
		return true
	default:
		return false
	}
}

// StatusIndicatorOptions 控制指示器的初始化行为。
type StatusIndicatorOptions struct {
	State StatusIndicatorState
	Clock func() time.Time
}

// StatusIndicatorWidget 管理状态行（动画帧 + 标题 + 计时）。
// 一次发送从 Thinking 开始计时，到回复或失败为止。
type StatusIndicatorWidget struct {
	header string
	state  StatusIndicatorState

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock func() time.Time
}

func NewStatusIndicatorWidget(opts StatusIndicatorOptions) *StatusIndicatorWidget {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	state := opts.State
	if !state.valid() {
		state = StatusIdle
	}
	w := &StatusIndicatorWidget{
		header:       state.defaultHeader(),
		state:        state,
		clock:        clock,
		lastResumeAt: clock(),
		paused:       !state.tracksElapsed(),
	}
	return w
}

func (w *StatusIndicatorWidget) State() StatusIndicatorState {
	if w == nil {
		return StatusIdle
	}
	return w.state
}

// UpdateHeader 允许动态更新标题文本。
func (w *StatusIndicatorWidget) UpdateHeader(header string) {
	if w == nil {
		return
	}
	w.header = header
}

// SetState 更新状态。从空闲或错误进入计时状态时计时器清零。
func (w *StatusIndicatorWidget) SetState(state StatusIndicatorState) {
	if w == nil || !state.valid() {
		return
	}
	now := w.now()
	if state.tracksElapsed() && !w.state.tracksElapsed() {
		w.elapsedRunning = 0
		w.lastResumeAt = now
		w.paused = false
	}
	if !state.tracksElapsed() {
		w.pauseTimerAt(now)
	}
	w.state = state
	w.header = state.defaultHeader()
}

// ElapsedSeconds 返回累计秒数。
func (w *StatusIndicatorWidget) ElapsedSeconds() uint64 {
	if w == nil {
		return 0
	}
	return w.elapsedSecondsAt(w.now())
}

// DesiredHeight 返回状态行占用的行数。
func (w *StatusIndicatorWidget) DesiredHeight() int {
	if w == nil || !w.state.visible() {
		return 0
	}
	return 1
}

// Render 绘制状态行；frame 为动画帧，宽度不足时截断。
func (w *StatusIndicatorWidget) Render(width int, frame string) (render.Line, bool) {
	if w == nil || width <= 0 || !w.state.visible() {
		return render.Line{}, false
	}
	prettyElapsed := fmtElapsedCompact(w.elapsedSecondsAt(w.now()))

	lead := frame
	leadStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	if w.state == StatusError {
		lead = "!"
		leadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(render.ErrorColor))
	}
	spans := []render.Span{{Text: lead, Style: leadStyle}}
	if w.header != "" {
		spans = append(spans, render.Span{Text: " "}, render.Span{Text: w.header})
	}
	spans = append(spans, render.Span{Text: " "}, render.Span{
		Text:  fmt.Sprintf("(%s)", prettyElapsed),
		Style: lipgloss.NewStyle().Faint(true),
	})

	clamped := clampSpans(spans, width)
	if len(clamped) == 0 {
		return render.Line{}, false
	}
	return render.Line{Spans: clamped}, true
}

func (w *StatusIndicatorWidget) now() time.Time {
	if w.clock != nil {
		return w.clock()
	}
	return time.Now()
}

func (w *StatusIndicatorWidget) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *StatusIndicatorWidget) elapsedDurationAt(now time.Time) time.Duration {
	if w.paused {
		return w.elapsedRunning
	}
	return w.elapsedRunning + now.Sub(w.lastResumeAt)
}

func (w *StatusIndicatorWidget) elapsedSecondsAt(now time.Time) uint64 {
	return uint64(w.elapsedDurationAt(now).Seconds())
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

func clampSpans(spans []render.Span, width int) []render.Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]render.Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		if text := runewidth.Truncate(sp.Text, remaining, ""); text != "" {
			sp.Text = text
			out = append(out, sp)
			remaining = 0
		}
	}
	return out
}
