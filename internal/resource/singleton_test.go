package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/sitedeck/internal/api"
)

func TestHeroPage_UpdateInvalidatesAdminList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	heroes := Heroes(h.deps)
	_ = heroes.Load(ctx)
	page := HeroPage(h.deps, "about")

	if _, err := page.Update(ctx, api.NewMultipart().Set("title", "x"), Callbacks[api.PageHero]{}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Update before load err = %v, want ErrNotLoaded", err)
	}

	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if page.Key() != "/api/hero?page=about" || page.State().Data.ID != 3 {
		t.Fatalf("hero state = %#v", page.State())
	}

	before := h.backend.calls("/api/admin/hero")
	updated, err := page.Update(ctx, api.NewMultipart().Set("title", "Tentang baru"), Callbacks[api.PageHero]{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Tentang baru" || page.State().Data.Title != "Tentang baru" {
		t.Fatalf("updated = %#v, state = %#v", updated, page.State().Data)
	}
	if h.backend.lastOverride != "PUT" {
		t.Fatalf("_method = %q, want PUT", h.backend.lastOverride)
	}
	if got := h.backend.calls("/api/admin/hero"); got != before+1 {
		t.Fatalf("hero list fetches = %d, want %d", got, before+1)
	}
	if hs := heroes.State().Data; len(hs) != 1 || hs[0].Title != "Tentang baru" {
		t.Fatalf("hero list = %#v, want refreshed title", hs)
	}
}

func TestHeroes_UpdateReplacesRowAndRefreshesMountedPage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	heroes := Heroes(h.deps)
	defer heroes.Close()
	_ = heroes.Load(ctx)
	listBefore := h.backend.calls("/api/admin/hero")

	if _, err := heroes.Update(ctx, 3, api.NewMultipart().Set("title", "Baru"), Callbacks[api.PageHero]{}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got, _ := heroes.Find(3); got.Title != "Baru" {
		t.Fatalf("hero row = %#v, want title Baru", got)
	}
	if got := h.backend.calls("/api/admin/hero"); got != listBefore {
		t.Fatalf("hero list fetches = %d, want %d (row replaced in place)", got, listBefore)
	}
	if got := h.backend.calls("/api/hero"); got != 0 {
		t.Fatalf("public hero fetches = %d, want 0 while no page is mounted", got)
	}

	page := HeroPage(h.deps, "about")
	defer page.Close()
	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	pageBefore := h.backend.calls("/api/hero")
	if _, err := heroes.Update(ctx, 3, api.NewMultipart().Set("title", "Lagi"), Callbacks[api.PageHero]{}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got := h.backend.calls("/api/hero"); got != pageBefore+1 {
		t.Fatalf("public hero fetches = %d, want %d", got, pageBefore+1)
	}
	if got := page.State().Data.Title; got != "Lagi" {
		t.Fatalf("page hero title = %q, want Lagi", got)
	}
}

func TestSettings_LoadAndUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	settings := Settings(h.deps)
	defer settings.Close()

	if settings.Loaded() {
		t.Fatalf("Loaded = true before Load")
	}
	if err := settings.Load(ctx); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	cur := settings.State().Data
	if cur.SiteName != "PT Contoh" {
		t.Fatalf("settings = %#v", cur)
	}

	cur.Tagline = "Solusi terpercaya"
	var got api.Settings
	_, err := settings.Update(ctx, api.JSON(cur), Callbacks[api.Settings]{OnSuccess: func(s api.Settings) { got = s }})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Tagline != "Solusi terpercaya" || settings.State().Data.Tagline != "Solusi terpercaya" {
		t.Fatalf("updated settings = %#v / %#v", got, settings.State().Data)
	}
	if h.notifier.last() != "success:Settings updated" {
		t.Fatalf("notification = %q", h.notifier.last())
	}
}

func TestPublicSettingsIsReadOnly(t *testing.T) {
	h := newHarness(t)
	if _, err := PublicSettings(h.deps).Update(context.Background(), api.JSON(nil), Callbacks[api.Settings]{}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("err = %v, want ErrReadOnly", err)
	}
}
