package emoji

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// SelectedMsg 在用户选中一个表情后发出。
type SelectedMsg struct {
	Native string
}

// ClosedMsg 在选择器未选择就关闭时发出。
type ClosedMsg struct{}

const (
	cellWidth   = 4
	defaultRows = 5
)

var (
	pickerBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle()
	selectedCell  = lipgloss.NewStyle().Background(lipgloss.Color("#2F2A3D"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	emptyHintText = "no matches"
)

// Picker 是一个浮层：顶部搜索框，下方表情网格。
type Picker struct {
	input    textinput.Model
	data     *Dataset
	results  []Emoji
	selected int
	offset   int
	open     bool
	width    int
	rows     int
}

func NewPicker(data *Dataset) *Picker {
	ti := textinput.New()
	ti.Placeholder = "Search emoji"
	ti.Prompt = "🔍 "
	ti.CharLimit = 64
	if data == nil {
		data = Fallback()
	}
	p := &Picker{input: ti, data: data, width: 40, rows: defaultRows}
	p.refresh()
	return p
}

func (p *Picker) IsOpen() bool {
	return p != nil && p.open
}

// Open 清空查询并聚焦搜索框。
func (p *Picker) Open() tea.Cmd {
	p.open = true
	p.input.SetValue("")
	p.refresh()
	return p.input.Focus()
}

func (p *Picker) Close() {
	p.open = false
	p.input.Blur()
}

// Toggle 打开或关闭选择器。
func (p *Picker) Toggle() tea.Cmd {
	if p.open {
		p.Close()
		return nil
	}
	return p.Open()
}

// SetDataset 替换数据集并保留当前查询。
func (p *Picker) SetDataset(data *Dataset) {
	if data == nil || data.Len() == 0 {
		return
	}
	p.data = data
	p.refresh()
}

func (p *Picker) SetWidth(width int) {
	if width < 2*cellWidth {
		width = 2 * cellWidth
	}
	p.width = width
	p.input.Width = max(1, width-4)
}

func (p *Picker) Query() string {
	return p.input.Value()
}

// Results 返回当前匹配结果。
func (p *Picker) Results() []Emoji {
	return append([]Emoji(nil), p.results...)
}

// Selected 返回当前高亮的表情。
func (p *Picker) Selected() (Emoji, bool) {
	if p.selected < 0 || p.selected >= len(p.results) {
		return Emoji{}, false
	}
	return p.results[p.selected], true
}

func (p *Picker) columns() int {
	return max(1, p.width/cellWidth)
}

func (p *Picker) refresh() {
	p.results = p.data.Search(p.input.Value(), 0)
	p.selected = 0
	p.offset = 0
}

// Update 处理选择器打开时的按键。未打开时不做任何事。
func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	if !p.open {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}
	cols := p.columns()
	switch key.String() {
	case "esc", "ctrl+e":
		p.Close()
		return func() tea.Msg { return ClosedMsg{} }
	case "enter":
		e, ok := p.Selected()
		if !ok {
			return nil
		}
		p.Close()
		return func() tea.Msg { return SelectedMsg{Native: e.Native} }
	case "left", "shift+tab":
		p.move(-1)
		return nil
	case "right", "tab":
		p.move(1)
		return nil
	case "up":
		p.move(-cols)
		return nil
	case "down":
		p.move(cols)
		return nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refresh()
	}
	return cmd
}

func (p *Picker) move(delta int) {
	if len(p.results) == 0 {
		return
	}
	next := p.selected + delta
	if next < 0 || next >= len(p.results) {
		return
	}
	p.selected = next
	cols := p.columns()
	row := p.selected / cols
	if row < p.offset {
		p.offset = row
	}
	if row >= p.offset+p.rows {
		p.offset = row - p.rows + 1
	}
}

// View 渲染浮层，关闭时返回空串。
func (p *Picker) View() string {
	if !p.open {
		return ""
	}
	lines := []string{p.input.View()}
	if len(p.results) == 0 {
		lines = append(lines, nameStyle.Render(emptyHintText))
		return pickerBorder.Render(strings.Join(lines, "\n"))
	}

	cols := p.columns()
	start := p.offset * cols
	end := min(len(p.results), start+p.rows*cols)
	var row strings.Builder
	for i := start; i < end; i++ {
		cell := padCell(p.results[i].Native)
		if i == p.selected {
			row.WriteString(selectedCell.Render(cell))
		} else {
			row.WriteString(cellStyle.Render(cell))
		}
		if (i-start+1)%cols == 0 || i == end-1 {
			lines = append(lines, row.String())
			row.Reset()
		}
	}
	if e, ok := p.Selected(); ok {
		lines = append(lines, nameStyle.Render(e.Native+"  "+e.Name))
	}
	return pickerBorder.Render(strings.Join(lines, "\n"))
}

func padCell(native string) string {
	w := runewidth.StringWidth(native)
	if w >= cellWidth {
		return native
	}
	return " " + native + strings.Repeat(" ", cellWidth-w-1)
}
