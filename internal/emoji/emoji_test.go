package emoji

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleData = `{
  "categories": [
    {"id": "people", "emojis": ["grinning", "wave"]},
    {"id": "nature", "emojis": ["dog"]}
  ],
  "emojis": {
    "wave": {"id": "wave", "name": "Waving Hand", "keywords": ["hello", "bye"], "skins": [{"unified": "1f44b", "native": "👋"}]},
    "grinning": {"id": "grinning", "name": "Grinning Face", "keywords": ["smile", "happy"], "skins": [{"native": "😀"}]},
    "dog": {"id": "dog", "name": "Dog Face", "keywords": ["pet"], "skins": [{"native": "🐶"}]},
    "zzz": {"id": "zzz", "name": "Zzz", "keywords": ["sleep"], "skins": [{"native": "💤"}]},
    "broken": {"id": "broken", "name": "Broken", "skins": []}
  }
}`

func natives(emojis []Emoji) []string {
	out := make([]string, 0, len(emojis))
	for _, e := range emojis {
		out = append(out, e.Native)
	}
	return out
}

func TestParseKeepsCategoryOrder(t *testing.T) {
	data, err := Parse([]byte(sampleData))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []string{"😀", "👋", "🐶", "💤"}
	if diff := cmp.Diff(want, natives(data.All())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	for _, raw := range []string{`not json`, `{"emojis":{}}`, `{"emojis":{"a":{"skins":[]}}}`} {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("Parse(%q) expected error", raw)
		}
	}
}

func TestSearch(t *testing.T) {
	data, err := Parse([]byte(sampleData))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	tests := []struct {
		query string
		want  string
	}{
		{query: "hello", want: "👋"},
		{query: "PET", want: "🐶"},
		{query: "grin", want: "😀"},
	}
	for _, tt := range tests {
		got := data.Search(tt.query, 0)
		if len(got) == 0 || got[0].Native != tt.want {
			t.Fatalf("Search(%q) first = %v, want %q", tt.query, natives(got), tt.want)
		}
	}
	if got := data.Search("", 2); len(got) != 2 {
		t.Fatalf("Search with limit returned %d entries", len(got))
	}
	if got := data.Search("qqqqqq", 0); len(got) != 0 {
		t.Fatalf("unexpected matches: %v", natives(got))
	}
}

func TestFallbackHasEntries(t *testing.T) {
	data := Fallback()
	if data.Len() < 20 {
		t.Fatalf("fallback too small: %d", data.Len())
	}
	if got := data.Search("thumbs up", 1); len(got) != 1 || got[0].Native != "👍" {
		t.Fatalf("fallback search = %v", natives(got))
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleData))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.Client(), srv.URL+"/data")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if data.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", data.Len())
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Fatalf("expected error on 404")
	}
}

func TestLoadCmdReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	msg := LoadCmd(context.Background(), srv.Client(), srv.URL)()
	loaded, ok := msg.(LoadedMsg)
	if !ok {
		t.Fatalf("unexpected msg %T", msg)
	}
	if loaded.Err == nil || loaded.Dataset != nil {
		t.Fatalf("expected error result, got %+v", loaded)
	}
}
