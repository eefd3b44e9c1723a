package preview

import (
	"strings"
	"testing"
)

func TestRegistry_CreateLookupRevoke(t *testing.T) {
	r := NewRegistry()
	data := []byte("png-bytes")
	url := r.Create(data, "image/png")
	if !strings.HasPrefix(url, "blob:") {
		t.Fatalf("url = %q, want blob: prefix", url)
	}
	data[0] = 'X'

	obj, ok := r.Lookup(url)
	if !ok || obj.MIME != "image/png" || obj.Size != 9 || string(obj.Data) != "png-bytes" {
		t.Fatalf("Lookup = %#v, %v", obj, ok)
	}
	if r.Live() != 1 {
		t.Fatalf("Live = %d, want 1", r.Live())
	}
	if !r.Revoke(url) {
		t.Fatalf("Revoke returned false for live url")
	}
	if r.Revoke(url) {
		t.Fatalf("second Revoke returned true")
	}
	if r.Live() != 0 {
		t.Fatalf("Live = %d, want 0", r.Live())
	}
}

func TestRegistry_IgnoresServerURLs(t *testing.T) {
	r := NewRegistry()
	if r.Revoke("http://cms.test/storage/a.png") {
		t.Fatalf("Revoke of server url returned true")
	}
	if IsLocal("http://cms.test/storage/a.png") || !IsLocal("blob:abc") {
		t.Fatalf("IsLocal misclassified urls")
	}
}

func TestRegistry_CloseReleasesEverything(t *testing.T) {
	r := NewRegistry()
	a := r.Create([]byte("a"), "image/png")
	r.Create([]byte("b"), "image/jpeg")
	if a == "" || r.Live() != 2 {
		t.Fatalf("Live = %d, want 2", r.Live())
	}
	r.Close()
	if r.Live() != 0 {
		t.Fatalf("Live after Close = %d, want 0", r.Live())
	}
}
