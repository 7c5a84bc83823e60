package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span 表示一段文本及其样式。Raw 为 true 时文本已带 ANSI 序列，原样输出。
type Span struct {
	Text  string
	Style lipgloss.Style
	Raw   bool
}

// Line 由多个 Span 组成。
type Line struct {
	Spans []Span
}

// Buffer 收集渲染结果，按行存储。
type Buffer struct {
	Lines []Line
}

func (b *Buffer) WriteLines(lines ...Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, lines...)
}

func (b *Buffer) Blank() {
	b.WriteLines(Line{})
}

// LinesToStrings 将样式化的行转换为字符串列表。
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		for _, sp := range line.Spans {
			if sp.Raw {
				sb.WriteString(sp.Text)
				continue
			}
			sb.WriteString(sp.Style.Render(sp.Text))
		}
		out = append(out, sb.String())
	}
	return out
}

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans})
	}
	return out
}

// Text 返回行的纯文本。
func (l Line) Text() string {
	var sb strings.Builder
	for _, sp := range l.Spans {
		sb.WriteString(sp.Text)
	}
	return sb.String()
}

// LinesToPlainStrings 去掉样式，只保留文本。
func LinesToPlainStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Text())
	}
	return out
}

// PlainLines 渲染片段为无样式的文本行，供非终端输出使用。width <= 0 不换行。
func PlainLines(fragment string, width int) []string {
	if width > 0 {
		width += 2
	}
	return LinesToPlainStrings(bodyLines(fragment, width, lipgloss.NewStyle()))
}
