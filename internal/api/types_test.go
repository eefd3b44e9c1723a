package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeLayouts(t *testing.T) {
	if !parseTime("").IsZero() {
		t.Fatalf("parseTime(\"\") should be zero")
	}
	if parseTime("2026-03-01T08:00:00.000000Z").IsZero() {
		t.Fatalf("parseTime should parse RFC3339Nano")
	}
	got := parseTime("2026-03-01 08:09:10")
	if got.IsZero() {
		t.Fatalf("parseTime should parse Laravel timestamp")
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("parseTime = %v, want 2026-03-01", got)
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for garbage")
	}
}

func TestNewsDecodesBilingualAndMediaFields(t *testing.T) {
	raw := `{"id":7,"title":"Rilis","title_en":"","image":"news/a.png","image_url":"http://x/storage/news/a.png","created_at":"2026-01-02T03:04:05Z"}`
	var n News
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if n.RecordID() != 7 || n.Title != "Rilis" {
		t.Fatalf("News = %#v, want id=7 title=Rilis", n)
	}
	if n.TitleEN != "" {
		t.Fatalf("TitleEN = %q, want empty (no fallback)", n.TitleEN)
	}
	if n.Image != "news/a.png" || n.ImageURL == "" {
		t.Fatalf("media = %#v, want path and url", n.Media)
	}
	if n.ParsedCreatedAt().IsZero() {
		t.Fatalf("ParsedCreatedAt should parse created_at")
	}
}

func TestSettingsEncodesSnakeCase(t *testing.T) {
	data, err := json.Marshal(Settings{SiteName: "PT Contoh", AddressEN: "Jakarta"})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if m["site_name"] != "PT Contoh" || m["address_en"] != "Jakarta" {
		t.Fatalf("encoded settings = %s", data)
	}
	if _, ok := m["created_at"]; ok {
		t.Fatalf("empty timestamps should be omitted: %s", data)
	}
}
