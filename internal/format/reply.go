// Package format turns raw model replies into the HTML fragment shown in a
// bot message.
package format

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
)

// Reply escapes text and applies, in order: **bold** -> <strong>,
// *italic* -> <em>, newline -> <br>. Bold must run first or the italic
// pattern would eat the double asterisks.
func Reply(text string) string {
	// 先转义：含 < 或 & 的回复在 HTML 中保留为实体，由 painter 绘制时还原。
	out := html.EscapeString(text)
	out = strings.TrimSpace(boldPattern.ReplaceAllString(out, "<strong>$1</strong>"))
	out = strings.TrimSpace(italicPattern.ReplaceAllString(out, "<em>$1</em>"))
	return strings.ReplaceAll(out, "\n", "<br>")
}

// Error wraps msg in the error fragment shown in place of a reply.
func Error(prefix, msg string) string {
	return prefix + ` <br><span class="error">` + html.EscapeString(msg) + `</span>`
}
