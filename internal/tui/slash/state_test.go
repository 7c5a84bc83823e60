package slash

import (
	"strings"
	"testing"
)

func TestSyncInputOpensOnSlashToken(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/at", CursorLine: 0, CursorColumn: 3})
	if !state.Open() {
		t.Fatalf("expected slash popup to open")
	}
	if len(state.matches) == 0 || state.matches[0].item.Command != CommandAttach {
		t.Fatalf("expected /attach first, got %+v", state.matches)
	}
}

func TestSyncInputOpensOnBareSlash(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/", CursorLine: 0, CursorColumn: 1})
	if !state.Open() {
		t.Fatalf("expected slash popup to open on bare slash")
	}
	if len(state.matches) != len(builtinItems()) {
		t.Fatalf("bare slash should list every command, got %d", len(state.matches))
	}
}

func TestSyncInputIgnoresPathsAndPlainText(t *testing.T) {
	state := NewState(Options{})
	for _, value := range []string{"/etc/hosts", "hello /help", ""} {
		state.SyncInput(Input{Value: value, CursorColumn: len(value)})
		if state.Open() {
			t.Fatalf("popup should stay closed for %q", value)
		}
	}
}

func TestHandleKeyTabCompletes(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/det", CursorLine: 0, CursorColumn: 4})
	action, handled := state.HandleKey("tab")
	if !handled {
		t.Fatalf("expected tab handled")
	}
	if action.Kind != ActionInsert {
		t.Fatalf("expected insert action, got %v", action.Kind)
	}
	if strings.TrimSpace(action.NewValue) != "/detach" {
		t.Fatalf("unexpected inserted value: %q", action.NewValue)
	}
	if action.CursorColumn != len("/detach ") {
		t.Fatalf("CursorColumn = %d", action.CursorColumn)
	}
}

func TestHandleKeyEnterDispatchesCommand(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/copy", CursorLine: 0, CursorColumn: 5})
	action, handled := state.HandleKey("enter")
	if !handled {
		t.Fatalf("expected enter handled")
	}
	if action.Kind != ActionSubmitCommand || action.Command != CommandCopy {
		t.Fatalf("unexpected action %+v", action)
	}
	if state.Open() {
		t.Fatalf("popup should close after dispatch")
	}
}

func TestHandleKeyEnterCompletesCommandNeedingArgs(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/attach", CursorLine: 0, CursorColumn: 7})
	action, _ := state.HandleKey("enter")
	if action.Kind != ActionInsert || action.NewValue != "/attach " {
		t.Fatalf("expected completion, got %+v", action)
	}
}

func TestHandleKeyNavigationWraps(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/", CursorColumn: 1})
	state.HandleKey("up")
	if state.selected != len(state.matches)-1 {
		t.Fatalf("up from first should wrap, got %d", state.selected)
	}
	state.HandleKey("down")
	if state.selected != 0 {
		t.Fatalf("down from last should wrap, got %d", state.selected)
	}
	if _, handled := state.HandleKey("x"); handled {
		t.Fatalf("plain keys should pass through")
	}
}

func TestResolveSubmit(t *testing.T) {
	state := NewState(Options{})
	tests := []struct {
		value   string
		kind    ActionKind
		command Command
		args    string
		unknown string
	}{
		{value: "/attach ./cat.png", kind: ActionSubmitCommand, command: CommandAttach, args: "./cat.png"},
		{value: "/QUIT", kind: ActionSubmitCommand, command: CommandQuit},
		{value: "/nope", kind: ActionError, unknown: "nope"},
		{value: "hello", kind: ActionNone},
		{value: "/usr/bin is a path", kind: ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := state.ResolveSubmit(tt.value)
			if got.Kind != tt.kind || got.Command != tt.command || got.Args != tt.args || got.Unknown != tt.unknown {
				t.Fatalf("ResolveSubmit(%q) = %+v", tt.value, got)
			}
		})
	}
}

func TestViewListsMatches(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/", CursorColumn: 1})
	view := state.View(60)
	for _, want := range []string{"/attach", "/detach", "/help"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %s:\n%s", want, view)
		}
	}
}
