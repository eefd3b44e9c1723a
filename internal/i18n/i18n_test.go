package i18n

import (
	"testing"
	"testing/fstest"
)

func TestEmbeddedCatalogsLoad(t *testing.T) {
	c, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded returned error: %v", err)
	}
	id := c.Localizer(ID)
	en := c.Localizer(EN)
	if got := id.T("nav.news"); got != "Berita" {
		t.Fatalf("id nav.news = %q, want Berita", got)
	}
	if got := en.T("nav.news"); got != "News" {
		t.Fatalf("en nav.news = %q, want News", got)
	}
}

func TestLocalizer_FallsBackToDefaultThenKey(t *testing.T) {
	fsys := fstest.MapFS{
		"id.toml": {Data: []byte("[auth]\ninvalid_credentials = \"Email atau password salah.\"\n[nav]\nnews = \"Berita\"\n")},
		"en.toml": {Data: []byte("[nav]\nnews = \"News\"\n")},
	}
	c, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	en := c.Localizer("en-US")
	if en.Locale() != EN {
		t.Fatalf("Locale = %q, want en", en.Locale())
	}
	if got := en.T("auth.invalid_credentials"); got != "Email atau password salah." {
		t.Fatalf("fallback = %q, want default-locale message", got)
	}
	if got := en.T("missing.key"); got != "missing.key" {
		t.Fatalf("missing key = %q, want key itself", got)
	}
	if c.Has(EN, "auth.invalid_credentials") {
		t.Fatalf("Has should not report fallbacks")
	}
}

func TestLoad_MissingCatalog(t *testing.T) {
	if _, err := Load(fstest.MapFS{"id.toml": {Data: []byte("")}}); err == nil {
		t.Fatalf("Load returned nil error for missing en.toml")
	}
}

func TestTfSubstitutesParams(t *testing.T) {
	c, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded returned error: %v", err)
	}
	got := c.Localizer(EN).Tf("action.create_success", map[string]string{"entity": "News"})
	if got != "News added" {
		t.Fatalf("Tf = %q, want %q", got, "News added")
	}
}

func TestPickHasNoFallback(t *testing.T) {
	tests := []struct {
		locale, id, en, want string
	}{
		{"id", "Berita", "News", "Berita"},
		{"en", "Berita", "News", "News"},
		{"en", "Berita", "", ""},
		{"id", "", "News", ""},
		{"fr", "Berita", "News", "Berita"},
	}
	for _, tt := range tests {
		if got := Pick(tt.locale, tt.id, tt.en); got != tt.want {
			t.Fatalf("Pick(%q,%q,%q) = %q, want %q", tt.locale, tt.id, tt.en, got, tt.want)
		}
	}
}

func TestNormalizeAndNext(t *testing.T) {
	if Normalize(" EN_gb ") != EN || Normalize("") != ID || Normalize("de") != ID {
		t.Fatalf("Normalize mismatch")
	}
	if Next(ID) != EN || Next(EN) != ID {
		t.Fatalf("Next should cycle id -> en -> id")
	}
}

func TestZeroLocalizerReturnsKey(t *testing.T) {
	var l Localizer
	if l.T("nav.news") != "nav.news" || l.Locale() != DefaultLocale {
		t.Fatalf("zero Localizer should return keys in the default locale")
	}
}

func TestActiveSwitchesLocale(t *testing.T) {
	c, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded returned error: %v", err)
	}
	a := NewActive(c, ID)
	if a.T("nav.settings") != "Pengaturan" || a.Pick("Berita", "News") != "Berita" {
		t.Fatalf("Active(id) mismatch")
	}
	a.Set(EN)
	if a.Locale() != EN || a.T("nav.settings") != "Settings" || a.Pick("Berita", "News") != "News" {
		t.Fatalf("Active(en) mismatch")
	}
}
