package conversation

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_AppendKeepsOrderAndDuplicates(t *testing.T) {
	h := NewHistory()
	h.Append(Turn{Role: RoleUser, Parts: []Part{TextPart("hi")}})
	h.Append(Turn{Role: RoleModel, Parts: []Part{TextPart("hello")}})
	h.Append(Turn{Role: RoleUser, Parts: []Part{TextPart("hi")}})

	want := []Turn{
		{Role: RoleUser, Parts: []Part{{Text: "hi"}}},
		{Role: RoleModel, Parts: []Part{{Text: "hello"}}},
		{Role: RoleUser, Parts: []Part{{Text: "hi"}}},
	}
	if diff := cmp.Diff(want, h.Snapshot()); diff != "" {
		t.Fatalf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
}

func TestHistory_SnapshotIsDetached(t *testing.T) {
	h := NewHistory()
	turn := Turn{Role: RoleUser, Parts: []Part{TextPart("look"), InlinePart("QUJD", "image/png")}}
	h.Append(turn)

	// mutating the caller's value after Append must not leak in
	turn.Parts[1].InlineData.Data = "changed"

	snap := h.Snapshot()
	snap[0].Parts[0].Text = "mutated"

	again := h.Snapshot()
	if got := again[0].Parts[0].Text; got != "look" {
		t.Fatalf("text after snapshot mutation = %q, want %q", got, "look")
	}
	if got := again[0].Parts[1].InlineData.Data; got != "QUJD" {
		t.Fatalf("inline data = %q, want %q", got, "QUJD")
	}
}

func TestHistory_LastAndHelpers(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Last(RoleModel); ok {
		t.Fatalf("Last(model) on empty history ok = true")
	}
	h.Append(Turn{Role: RoleUser, Parts: []Part{TextPart("a"), InlinePart("x", "image/gif")}})
	h.Append(Turn{Role: RoleModel, Parts: []Part{TextPart("b")}})

	last, ok := h.Last(RoleUser)
	if !ok {
		t.Fatalf("Last(user) ok = false")
	}
	if last.Text() != "a" || !last.HasInline() {
		t.Fatalf("Last(user) = %+v", last)
	}
	model, _ := h.Last(RoleModel)
	if model.HasInline() {
		t.Fatalf("model turn HasInline() = true")
	}
}

func TestHistory_ConcurrentAppend(t *testing.T) {
	h := NewHistory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(Turn{Role: RoleUser, Parts: []Part{TextPart("x")}})
			_ = h.Snapshot()
		}()
	}
	wg.Wait()
	if h.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", h.Len())
	}
}
