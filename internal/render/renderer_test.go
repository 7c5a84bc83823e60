package render

import (
	"regexp"
	"strings"
	"testing"

	"chatbot-cli/internal/attachment"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(lines []string) string {
	return ansiPattern.ReplaceAllString(strings.Join(lines, "\n"), "")
}

func TestRenderUserShowsTextVerbatim(t *testing.T) {
	r := NewRenderer()
	id := r.RenderUser("<b>not bold</b>\n**raw**", nil)

	msg, ok := r.Get(id)
	if !ok {
		t.Fatalf("Get(%q) not found", id)
	}
	if msg.Role != RoleUser {
		t.Fatalf("Role = %q, want %q", msg.Role, RoleUser)
	}
	out := stripANSI(r.Lines(80, 0))
	if !strings.Contains(out, "› <b>not bold</b>") {
		t.Fatalf("user text not rendered verbatim:\n%s", out)
	}
	if !strings.Contains(out, "  **raw**") {
		t.Fatalf("second line missing:\n%s", out)
	}
}

func TestRenderUserWithAttachmentLabel(t *testing.T) {
	r := NewRenderer()
	att := &attachment.Attachment{Name: "notes.png", MIMEType: "image/png", Size: 10, Data: "bm90IGFuIGltYWdl"}
	id := r.RenderUser("", att)
	att.Name = "changed.png"

	msg, _ := r.Get(id)
	if msg.Attachment == nil || msg.Attachment.Name != "notes.png" {
		t.Fatalf("attachment not copied: %+v", msg.Attachment)
	}
	out := stripANSI(r.Lines(80, 0))
	if !strings.Contains(out, "📎 notes.png") {
		t.Fatalf("attachment label missing:\n%s", out)
	}
}

func TestPlaceholderFinalize(t *testing.T) {
	r := NewRenderer()
	id := r.RenderBotPlaceholder()
	if !r.Thinking() {
		t.Fatalf("Thinking() = false after placeholder")
	}
	if out := stripANSI(r.Lines(40, 1)); !strings.Contains(out, "● ● ●") {
		t.Fatalf("thinking dots missing:\n%s", out)
	}

	r.FinalizeBot(id, "Hi <strong>there</strong>", false)
	msg, _ := r.Get(id)
	if msg.Thinking || msg.Error {
		t.Fatalf("unexpected state after finalize: %+v", msg)
	}
	if r.Thinking() {
		t.Fatalf("Thinking() = true after finalize")
	}
	if out := stripANSI(r.Lines(40, 0)); !strings.Contains(out, "• Hi there") {
		t.Fatalf("final reply missing:\n%s", out)
	}
}

func TestFinalizeBotFailure(t *testing.T) {
	r := NewRenderer()
	id := r.RenderBotPlaceholder()
	r.FinalizeBot(id, `Oops! Something went wrong: <br><span class="error">Invalid response structure.</span>`, true)

	msg, _ := r.Get(id)
	if !msg.Error {
		t.Fatalf("Error = false, want true")
	}
	out := stripANSI(r.Lines(80, 0))
	if !strings.Contains(out, "Oops! Something went wrong:") || !strings.Contains(out, "  Invalid response structure.") {
		t.Fatalf("error reply not rendered:\n%s", out)
	}
}

func TestFinalizeUnknownIDIgnored(t *testing.T) {
	r := NewRenderer()
	r.RenderBotPlaceholder()
	r.FinalizeBot("missing", "x", false)
	if !r.Thinking() {
		t.Fatalf("unknown id should not touch existing placeholder")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestConsumeScroll(t *testing.T) {
	r := NewRenderer()
	if r.ConsumeScroll() {
		t.Fatalf("fresh renderer should not request scroll")
	}
	r.RenderUser("hi", nil)
	if !r.ConsumeScroll() {
		t.Fatalf("append should request scroll")
	}
	if r.ConsumeScroll() {
		t.Fatalf("scroll request should be cleared")
	}
	r.ScrollToLatest()
	if !r.ConsumeScroll() {
		t.Fatalf("ScrollToLatest should request scroll")
	}
}

func TestIDsAreUnique(t *testing.T) {
	r := NewRenderer()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := r.RenderBotPlaceholder()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestPlainLines(t *testing.T) {
	fragment := `Oops! Something went wrong: <br><span class="error">HTTP 500: internal</span>`
	got := PlainLines(fragment, 0)
	want := []string{"Oops! Something went wrong: ", "HTTP 500: internal"}
	if len(got) != len(want) {
		t.Fatalf("PlainLines = %q, want %q", got, want)
	}
	for i := range want {
		if strings.TrimRight(got[i], " ") != strings.TrimRight(want[i], " ") {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	wrapped := PlainLines("one two three four", 10)
	if len(wrapped) != 2 || wrapped[0] != "one two" || wrapped[1] != "three four" {
		t.Fatalf("PlainLines wrapped = %q", wrapped)
	}
}
