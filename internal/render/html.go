package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

// ErrorColor matches the red used for failed replies.
const ErrorColor = "#D32F2F"

type inlineState struct {
	bold   int
	italic int
	err    int
}

func (s inlineState) style(base lipgloss.Style) lipgloss.Style {
	st := base
	if s.bold > 0 {
		st = st.Bold(true)
	}
	if s.italic > 0 {
		st = st.Italic(true)
	}
	if s.err > 0 {
		st = st.Foreground(lipgloss.Color(ErrorColor))
	}
	return st
}

// paintHTML 将消息片段转换为逻辑行。支持 <strong>/<b>、<em>/<i>、<br>、
// <span class="error">；其他标签只保留文本。
func paintHTML(fragment string, base lipgloss.Style) [][]Span {
	lines := [][]Span{nil}
	var state inlineState
	var spanStack []bool

	newline := func() { lines = append(lines, nil) }
	appendText := func(text string) {
		if text == "" {
			return
		}
		last := len(lines) - 1
		lines[last] = append(lines[last], Span{Text: text, Style: state.style(base)})
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return lines
		case html.TextToken:
			// 与 innerHTML 一致：源码里的换行只是空白
			appendText(strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(string(z.Text())))
		case html.SelfClosingTagToken, html.StartTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "br":
				newline()
			case "strong", "b":
				if tt == html.StartTagToken {
					state.bold++
				}
			case "em", "i":
				if tt == html.StartTagToken {
					state.italic++
				}
			case "span":
				if tt != html.StartTagToken {
					continue
				}
				isErr := hasAttr && hasClass(z, "error")
				if isErr {
					state.err++
				}
				spanStack = append(spanStack, isErr)
			case "div", "p":
				if len(lines[len(lines)-1]) > 0 {
					newline()
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "strong", "b":
				state.bold = max(0, state.bold-1)
			case "em", "i":
				state.italic = max(0, state.italic-1)
			case "span":
				if n := len(spanStack); n > 0 {
					if spanStack[n-1] {
						state.err = max(0, state.err-1)
					}
					spanStack = spanStack[:n-1]
				}
			case "div", "p":
				if len(lines[len(lines)-1]) > 0 {
					newline()
				}
			}
		}
	}
}

func hasClass(z *html.Tokenizer, class string) bool {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			for _, c := range strings.Fields(string(val)) {
				if c == class {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}

// UserHTML 与 innerText 赋值等价：转义文本，保留换行。
func UserHTML(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
