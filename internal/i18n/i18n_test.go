package i18n

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("").Code(); got != DefaultLanguage.Code() {
		t.Fatalf("empty normalize should fall back to default, got %q", got)
	}
	if got := Normalize("EN-us"); got != LanguageEnglish {
		t.Fatalf("expected english normalization, got %q", got)
	}
	if got := Normalize("zh_CN"); got != LanguageChinese {
		t.Fatalf("expected chinese normalization, got %q", got)
	}
	if got := Normalize("ja"); got != Language("ja") {
		t.Fatalf("expected passthrough for unknown language, got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if name := LanguageChinese.DisplayName(); name != "中文" {
		t.Fatalf("unexpected chinese display name: %q", name)
	}
	if name := LanguageEnglish.DisplayName(); name != "English" {
		t.Fatalf("unexpected english display name: %q", name)
	}
	if name := Language("fr").DisplayName(); name != "fr" {
		t.Fatalf("unexpected passthrough display name: %q", name)
	}
}

func TestEnglishAlertsMatchWidget(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyErrorPrefix, "Oops! Something went wrong:"},
		{KeyUnsupportedType, "Please select an image file (JPG, PNG, etc.)"},
		{KeyTooLarge, "File is too large. Max 5MB allowed."},
	}
	for _, tt := range tests {
		if got := T(LanguageEnglish, tt.key); got != tt.want {
			t.Fatalf("T(en, %s) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestTFallbacks(t *testing.T) {
	if got := T(Language("fr"), KeyTooLarge); got != "File is too large. Max 5MB allowed." {
		t.Fatalf("unknown language should fall back to english, got %q", got)
	}
	if got := T(LanguageEnglish, Key("missing")); got != "missing" {
		t.Fatalf("missing key should echo key, got %q", got)
	}
	if got := T(LanguageChinese, KeyUnknownCommand, "foo"); !strings.Contains(got, "/foo") {
		t.Fatalf("args not applied: %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	en := catalog[LanguageEnglish]
	for lang, msgs := range catalog {
		for key := range en {
			if _, ok := msgs[key]; !ok {
				t.Errorf("%s missing key %s", lang, key)
			}
		}
	}
}
