package emoji

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(p *Picker, text string) {
	for _, r := range text {
		p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPickerSelectEmitsNative(t *testing.T) {
	p := NewPicker(Fallback())
	p.Open()
	typeText(p, "rocket")

	cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected command on enter")
	}
	msg, ok := cmd().(SelectedMsg)
	if !ok {
		t.Fatalf("unexpected msg type")
	}
	if msg.Native != "🚀" {
		t.Fatalf("Native = %q, want %q", msg.Native, "🚀")
	}
	if p.IsOpen() {
		t.Fatalf("picker should close after selection")
	}
}

func TestPickerEscCloses(t *testing.T) {
	p := NewPicker(nil)
	p.Open()
	cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected command on esc")
	}
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Fatalf("esc should emit ClosedMsg")
	}
	if p.IsOpen() {
		t.Fatalf("picker should be closed")
	}
}

func TestPickerIgnoresKeysWhenClosed(t *testing.T) {
	p := NewPicker(nil)
	if cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("closed picker should ignore keys")
	}
	if p.View() != "" {
		t.Fatalf("closed picker should render nothing")
	}
}

func TestPickerNavigation(t *testing.T) {
	p := NewPicker(Fallback())
	p.SetWidth(16)
	p.Open()

	p.Update(tea.KeyMsg{Type: tea.KeyRight})
	if e, _ := p.Selected(); e.ID != Fallback().All()[1].ID {
		t.Fatalf("right should select second entry, got %q", e.ID)
	}
	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.selected != 1+p.columns() {
		t.Fatalf("down moved to %d, want %d", p.selected, 1+p.columns())
	}
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.selected != 1 {
		t.Fatalf("up past first row should stay, got %d", p.selected)
	}
}

func TestPickerNoMatches(t *testing.T) {
	p := NewPicker(Fallback())
	p.Open()
	typeText(p, "zzzzqqq")
	if len(p.Results()) != 0 {
		t.Fatalf("expected no results")
	}
	if cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("enter without results should do nothing")
	}
	if !strings.Contains(p.View(), "no matches") {
		t.Fatalf("view should show empty hint")
	}
}

func TestPickerSetDatasetKeepsQuery(t *testing.T) {
	p := NewPicker(Fallback())
	p.Open()
	typeText(p, "dog")
	data, err := Parse([]byte(sampleData))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	p.SetDataset(data)
	if p.Query() != "dog" {
		t.Fatalf("query lost: %q", p.Query())
	}
	if res := p.Results(); len(res) == 0 || res[0].Native != "🐶" {
		t.Fatalf("results after swap = %v", natives(res))
	}
}
