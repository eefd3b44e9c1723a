package preview

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const scheme = "blob:"

// Object is the payload behind a preview URL.
type Object struct {
	MIME      string
	Size      int
	Data      []byte
	CreatedAt time.Time
}

// Registry hands out local preview URLs for selected files and tracks which
// are still live. Every Create must be matched by a Revoke.
type Registry struct {
	mu   sync.Mutex
	live map[string]Object
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[string]Object)}
}

// Create stores data and returns its preview URL.
func (r *Registry) Create(data []byte, mime string) string {
	url := scheme + uuid.NewString()
	buf := make([]byte, len(data))
	copy(buf, data)

	r.mu.Lock()
	r.live[url] = Object{MIME: mime, Size: len(buf), Data: buf, CreatedAt: time.Now()}
	r.mu.Unlock()
	return url
}

// Revoke releases url. It reports whether url was live; revoking twice or
// revoking a server URL is a no-op.
func (r *Registry) Revoke(url string) bool {
	if !IsLocal(url) {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[url]; !ok {
		return false
	}
	delete(r.live, url)
	return true
}

// Lookup returns the object behind a live url.
func (r *Registry) Lookup(url string) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.live[url]
	return obj, ok
}

// Live returns the number of unreleased previews.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Close releases anything still live and logs the leak.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.live); n > 0 {
		log.Printf("[preview] releasing %d unreleased preview(s) on shutdown", n)
	}
	clear(r.live)
}

// IsLocal reports whether url was issued by a Registry.
func IsLocal(url string) bool {
	return strings.HasPrefix(url, scheme)
}
