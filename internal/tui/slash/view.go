package slash

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C4A1FF"))
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#2F2A3D"))
)

// View 渲染弹窗内容（不含外围边框）。
func (s *State) View(width int) string {
	if s == nil || !s.open {
		return ""
	}
	contentWidth := max(width, 20)
	if len(s.matches) == 0 {
		return descStyle.Render("no matches")
	}

	nameWidth := 0
	for _, m := range s.matches {
		nameWidth = max(nameWidth, runewidth.StringWidth(m.item.DisplayName()+" "+m.item.Usage))
	}
	nameWidth = min(nameWidth, contentWidth/2)
	descWidth := max(8, contentWidth-nameWidth-2)

	start, end := window(len(s.matches), s.selected, s.maxLines)
	lines := make([]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		m := s.matches[idx]
		name := applyHighlights(m.item.DisplayName(), m.highlights)
		if m.item.Usage != "" {
			name += " " + descStyle.Render(m.item.Usage)
		}
		cell := lipgloss.NewStyle().Width(nameWidth).Render(nameStyle.Render(name))
		line := cell + "  " + descStyle.Render(runewidth.Truncate(m.item.Description, descWidth, "…"))
		if idx == s.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// window 返回包含选中项的可见区间。
func window(total, selected, maxLines int) (int, int) {
	if maxLines <= 0 || total <= maxLines {
		return 0, total
	}
	start := 0
	if selected >= maxLines {
		start = selected - maxLines + 1
	}
	return start, start + maxLines
}

// applyHighlights 高亮匹配字符；indexes 针对不带斜杠的命令名。
func applyHighlights(name string, indexes []int) string {
	if len(indexes) == 0 {
		return name
	}
	marked := map[int]bool{}
	for _, idx := range indexes {
		marked[idx+1] = true
	}
	var sb strings.Builder
	for i, r := range []rune(name) {
		if marked[i] {
			sb.WriteString(highlightStyle.Render(string(r)))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
