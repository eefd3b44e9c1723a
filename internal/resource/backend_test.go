package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/cache"
	"github.com/five82/sitedeck/internal/i18n"
	"github.com/five82/sitedeck/internal/notify"
)

// fakeBackend serves the admin news, hero and settings endpoints from memory.
type fakeBackend struct {
	mu        sync.Mutex
	news      []api.News
	nextID    int64
	hero      api.PageHero
	settings  api.Settings
	listCalls map[string]int
	requests  []string

	failList      bool
	deleteStatus  int
	deleteArrived chan struct{}
	deleteGate    chan struct{}
	lastOverride  string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		news: []api.News{
			{ID: 1, Title: "Satu", TitleEN: "One"},
			{ID: 2, Title: "Dua", TitleEN: "Two"},
		},
		nextID:    3,
		hero:      api.PageHero{ID: 3, Page: "about", Title: "Tentang kami"},
		settings:  api.Settings{ID: 1, SiteName: "PT Contoh"},
		listCalls: map[string]int{},
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/news", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls[r.URL.Path]++
		fail := b.failList
		items := append([]api.News(nil), b.news...)
		b.mu.Unlock()
		if fail {
			http.Error(w, `{"message":"Server Error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": items})
	})
	mux.HandleFunc("POST /api/admin/news", func(w http.ResponseWriter, r *http.Request) {
		title := formValue(r, "title")
		if strings.TrimSpace(title) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "The title field is required.",
				"errors":  map[string][]string{"title": {"The title field is required."}},
			})
			return
		}
		b.mu.Lock()
		n := api.News{ID: b.nextID, Title: title, TitleEN: formValue(r, "title_en")}
		b.nextID++
		b.news = append(b.news, n)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "data": n})
	})
	mux.HandleFunc("POST /api/admin/news/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		title := formValue(r, "title")
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastOverride = r.FormValue("_method")
		for i := range b.news {
			if b.news[i].ID == id {
				b.news[i].Title = title
				writeJSON(w, http.StatusOK, map[string]any{"data": b.news[i]})
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("DELETE /api/admin/news/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		arrived, gate, status := b.deleteArrived, b.deleteGate, b.deleteStatus
		b.mu.Unlock()
		if arrived != nil {
			arrived <- struct{}{}
		}
		if gate != nil {
			<-gate
		}
		if status != 0 {
			http.Error(w, `{"message":"nope"}`, status)
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		kept := b.news[:0]
		for _, n := range b.news {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		b.news = kept
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/admin/customers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(419)
	})
	mux.HandleFunc("GET /api/admin/hero", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.listCalls[r.URL.Path]++
		hero := b.hero
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": []api.PageHero{hero}})
	})
	mux.HandleFunc("GET /api/hero", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listCalls[r.URL.Path]++
		if r.URL.Query().Get("page") != b.hero.Page {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, b.hero)
	})
	mux.HandleFunc("POST /api/admin/hero/{id}", func(w http.ResponseWriter, r *http.Request) {
		title := formValue(r, "title")
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.PathValue("id") != strconv.FormatInt(b.hero.ID, 10) {
			http.NotFound(w, r)
			return
		}
		b.lastOverride = r.FormValue("_method")
		b.hero.Title = title
		writeJSON(w, http.StatusOK, map[string]any{"data": b.hero})
	})
	mux.HandleFunc("GET /api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": b.settings})
	})
	mux.HandleFunc("PUT /api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
		var s api.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		s.ID = b.settings.ID
		b.settings = s
		writeJSON(w, http.StatusOK, map[string]any{"data": b.settings})
	})
	return mux
}

func (b *fakeBackend) calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls[path]
}

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func formValue(r *http.Request, name string) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		return body[name]
	}
	_ = r.ParseMultipartForm(1 << 20)
	return r.FormValue(name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// recordingNotifier keeps every notification in order.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	n      int
}

func (r *recordingNotifier) Pending(msg string) notify.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	r.events = append(r.events, "pending:"+msg)
	return notify.ID(fmt.Sprint(r.n))
}

func (r *recordingNotifier) Success(_ notify.ID, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "success:"+msg)
}

func (r *recordingNotifier) Error(_ notify.ID, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "error:"+msg)
}

func (r *recordingNotifier) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type harness struct {
	backend  *fakeBackend
	deps     Deps
	store    *cache.Store
	notifier *recordingNotifier
	answer   bool
	prompts  []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := newFakeBackend()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	cat, err := i18n.Embedded()
	if err != nil {
		t.Fatalf("Embedded returned error: %v", err)
	}
	h := &harness{backend: b, store: cache.New(), notifier: &recordingNotifier{}, answer: true}
	h.deps = Deps{
		Client:   client,
		Store:    h.store,
		Notifier: h.notifier,
		Texts:    cat.Localizer(i18n.EN),
		Confirm: ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			h.prompts = append(h.prompts, prompt)
			return h.answer, nil
		}),
	}
	return h
}
