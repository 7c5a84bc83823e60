package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewport 包装 bubbles viewport：内容不变时跳过重设，
// 用户停在底部或请求跟随时保持贴底。
type Viewport struct {
	viewport.Model
	lastLines []string
}

func NewViewport(width, height int) Viewport {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return Viewport{Model: vp}
}

// Resize 更新宽高，宽度变化时丢弃缓存。
func (v *Viewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if v.Width != width {
		v.lastLines = nil
	}
	v.Width = width
	v.Height = height
}

// HandleUpdate 代理 bubbles 的 Update，保持内部状态。
func (v *Viewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetLines 更新内容；follow 为 true 时跳到底部。返回内容是否变化。
func (v *Viewport) SetLines(lines []string, follow bool) bool {
	if v == nil {
		return false
	}
	changed := !slices.Equal(lines, v.lastLines)
	if changed {
		stick := v.AtBottom()
		v.lastLines = append([]string(nil), lines...)
		v.SetContent(strings.Join(lines, "\n"))
		follow = follow || stick
	}
	if follow {
		v.GotoBottom()
	}
	return changed
}

func (v *Viewport) PageDown() {
	if v != nil {
		v.ViewDown()
	}
}

func (v *Viewport) PageUp() {
	if v != nil {
		v.ViewUp()
	}
}
