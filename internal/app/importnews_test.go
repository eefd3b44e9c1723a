package app

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/devapi"
)

const importFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Kabar</title>
  <item><title>Ekspor perdana</title><description>Kontainer pertama berangkat.</description><pubDate>Tue, 03 Jun 2025 09:00:00 +0000</pubDate></item>
  <item><title>Sertifikasi ISO</title><description>Audit selesai.</description></item>
</channel>
</rss>`

func newImportBackend(t *testing.T) (apiURL, feedURL string) {
	t.Helper()
	dir := t.TempDir()
	s, err := devapi.New(t.Context(), devapi.Config{
		DSN:           "file:" + filepath.Join(dir, "site.db"),
		StorageDir:    filepath.Join(dir, "storage"),
		AdminEmail:    "admin@contoh.id",
		AdminPassword: "rahasia-123",
		Quiet:         true,
	})
	if err != nil {
		t.Fatalf("devapi.New returned error: %v", err)
	}
	backend := httptest.NewServer(s.Handler())
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, importFeed)
	}))
	t.Cleanup(func() {
		feed.Close()
		backend.Close()
		_ = s.Close()
	})
	return backend.URL, feed.URL
}

func TestImportNews_SignsInAndIsRepeatable(t *testing.T) {
	apiURL, feedURL := newImportBackend(t)
	opts := Options{
		ConfigPath: writeConfig(t, fmt.Sprintf("api_base = %q\n", apiURL)),
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		EnvFiles:   []string{},
	}
	in := ImportOptions{FeedURL: feedURL, Email: "admin@contoh.id", Password: "rahasia-123"}

	res, err := ImportNews(t.Context(), opts, in)
	if err != nil {
		t.Fatalf("ImportNews returned error: %v", err)
	}
	if res.Created != 2 || res.Skipped != 0 {
		t.Fatalf("first run = %+v, want 2 created", res)
	}

	res, err = ImportNews(t.Context(), opts, in)
	if err != nil {
		t.Fatalf("second ImportNews returned error: %v", err)
	}
	if res.Created != 0 || res.Skipped != 2 {
		t.Fatalf("second run = %+v, want everything skipped", res)
	}

	client, err := api.NewClient(apiURL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	var news []api.News
	if err := client.Get(t.Context(), "/api/news", &news); err != nil {
		t.Fatalf("public news returned error: %v", err)
	}
	if len(news) != 2 || news[0].Title != "Ekspor perdana" {
		t.Fatalf("public news = %+v", news)
	}
}

func TestImportNews_WrongPassword(t *testing.T) {
	apiURL, feedURL := newImportBackend(t)
	opts := Options{
		ConfigPath: writeConfig(t, fmt.Sprintf("api_base = %q\n", apiURL)),
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		EnvFiles:   []string{},
	}
	_, err := ImportNews(t.Context(), opts, ImportOptions{FeedURL: feedURL, Email: "admin@contoh.id", Password: "salah"})
	if err == nil || err.Error() != "sign in: Email atau password salah." {
		t.Fatalf("ImportNews error = %v, want the credential message", err)
	}
}

func TestImportNews_RequiresSession(t *testing.T) {
	apiURL, feedURL := newImportBackend(t)
	opts := Options{
		ConfigPath: writeConfig(t, fmt.Sprintf("api_base = %q\n", apiURL)),
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		EnvFiles:   []string{},
	}
	if _, err := ImportNews(t.Context(), opts, ImportOptions{FeedURL: feedURL}); err == nil {
		t.Fatalf("ImportNews without credentials succeeded")
	}
}
