package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type token struct {
	text  string
	span  Span
	space bool
}

// wrapSpans 对一行样式文本做词级别换行，宽度按终端显示宽度计算。
// 换行处的空白被丢弃，超长单词按字符切开。
func wrapSpans(spans []Span, width int) []Line {
	if width <= 0 {
		return []Line{{Spans: spans}}
	}

	var (
		out     []Line
		current []Span
		curW    int
		pending *token
		wrapped bool
	)
	flush := func() {
		out = append(out, Line{Spans: current})
		current = nil
		curW = 0
		pending = nil
		wrapped = true
	}
	push := func(text string, sp Span, w int) {
		sp.Text = text
		current = append(current, sp)
		curW += w
	}

	for _, tok := range tokenize(spans) {
		w := runewidth.StringWidth(tok.text)
		if tok.space {
			if curW == 0 && wrapped {
				continue
			}
			t := tok
			pending = &t
			continue
		}

		spaceW := 0
		if pending != nil {
			spaceW = runewidth.StringWidth(pending.text)
		}
		if curW > 0 && curW+spaceW+w > width {
			flush()
			spaceW = 0
		}
		if pending != nil {
			push(pending.text, pending.span, spaceW)
			pending = nil
		}
		if w <= width-curW {
			push(tok.text, tok.span, w)
			continue
		}
		for _, chunk := range breakLongWord(tok.text, width-curW, width) {
			cw := runewidth.StringWidth(chunk)
			if curW > 0 && curW+cw > width {
				flush()
			}
			push(chunk, tok.span, cw)
		}
	}
	if len(current) > 0 || len(out) == 0 {
		out = append(out, Line{Spans: current})
	}
	return out
}

func tokenize(spans []Span) []token {
	var out []token
	for _, sp := range spans {
		var sb strings.Builder
		inSpace := false
		emit := func() {
			if sb.Len() == 0 {
				return
			}
			out = append(out, token{text: sb.String(), span: sp, space: inSpace})
			sb.Reset()
		}
		for _, r := range sp.Text {
			isSpace := unicode.IsSpace(r)
			if isSpace != inSpace {
				emit()
				inSpace = isSpace
			}
			if isSpace {
				r = ' '
			}
			sb.WriteRune(r)
		}
		emit()
	}
	return out
}

// breakLongWord 切开超长单词；首段可用宽度为 first，其余为 width。
func breakLongWord(word string, first, width int) []string {
	if width <= 0 {
		return []string{word}
	}
	limit := first
	if limit <= 0 {
		limit = width
	}
	var out []string
	var current []rune
	w := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if w+rw > limit && len(current) > 0 {
			out = append(out, string(current))
			current = current[:0]
			w = 0
			limit = width
		}
		current = append(current, r)
		w += rw
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}

// wrapText 是 wrapSpans 的纯文本版本，按 \n 切分逻辑行。
func wrapText(text string, width int) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		for _, line := range wrapSpans([]Span{{Text: raw}}, width) {
			out = append(out, line.Text())
		}
	}
	return out
}
