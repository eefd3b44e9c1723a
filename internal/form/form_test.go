package form

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/sitedeck/internal/preview"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

// recordingPreviews logs create/revoke events in order.
type recordingPreviews struct {
	reg    *preview.Registry
	events []string
}

func (r *recordingPreviews) Create(data []byte, mime string) string {
	url := r.reg.Create(data, mime)
	r.events = append(r.events, "create "+url)
	return url
}

func (r *recordingPreviews) Revoke(url string) bool {
	r.events = append(r.events, "revoke "+url)
	return r.reg.Revoke(url)
}

func TestState_SetFieldClearsOnlyThatError(t *testing.T) {
	s := New(nil, map[string]string{MainField: "", "title_en": ""})
	s.SetError(MainField, "required")
	s.SetError("title_en", "too long")

	s.SetField(MainField, "Rilis")
	if s.Error(MainField) != "" {
		t.Fatalf("SetField should clear %s error", MainField)
	}
	if s.Error("title_en") != "too long" {
		t.Fatalf("SetField cleared an unrelated error")
	}
	if s.Value(MainField) != "Rilis" {
		t.Fatalf("Value = %q, want Rilis", s.Value(MainField))
	}
}

func TestState_ClearErrors(t *testing.T) {
	s := New(nil, nil)
	s.SetError("a", "x")
	s.SetError("b", "y")
	s.ClearErrors("a")
	if !reflect.DeepEqual(s.Errors(), map[string]string{"b": "y"}) {
		t.Fatalf("Errors = %v, want only b", s.Errors())
	}
	s.ClearErrors()
	if s.HasErrors() {
		t.Fatalf("ClearErrors() should clear all")
	}
}

func TestState_ResetIsIdempotent(t *testing.T) {
	reg := preview.NewRegistry()
	initial := map[string]string{MainField: "Awal", "content": "isi"}
	s := New(reg, initial)

	s.SetField(MainField, "Ubah")
	s.SetError("content", "bad")
	if err := s.AttachFile("a.png", pngBytes); err != nil {
		t.Fatalf("AttachFile returned error: %v", err)
	}

	s.Reset()
	onceValues, onceErrors := s.Values(), s.Errors()
	s.Reset()
	if !reflect.DeepEqual(s.Values(), onceValues) || !reflect.DeepEqual(s.Errors(), onceErrors) {
		t.Fatalf("second Reset changed state")
	}
	if !reflect.DeepEqual(onceValues, initial) || len(onceErrors) != 0 {
		t.Fatalf("Reset values = %v errors = %v, want initial and none", onceValues, onceErrors)
	}
	if s.File() != nil || reg.Live() != 0 {
		t.Fatalf("Reset should release the preview (live=%d)", reg.Live())
	}

	initial[MainField] = "mutated by caller"
	s.Reset()
	if s.Value(MainField) != "Awal" {
		t.Fatalf("New should copy initial values")
	}
}

func TestState_PreviewReleasedBeforeReplacement(t *testing.T) {
	rec := &recordingPreviews{reg: preview.NewRegistry()}
	s := New(rec, nil)

	if err := s.AttachFile("a.png", pngBytes); err != nil {
		t.Fatalf("AttachFile(a) returned error: %v", err)
	}
	a := s.PreviewURL()
	if err := s.AttachFile("b.jpg", jpegBytes); err != nil {
		t.Fatalf("AttachFile(b) returned error: %v", err)
	}
	b := s.PreviewURL()

	want := []string{"create " + a, "revoke " + a, "create " + b}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	if rec.reg.Live() != 1 {
		t.Fatalf("Live = %d, want 1", rec.reg.Live())
	}

	s.Close()
	if rec.reg.Live() != 0 {
		t.Fatalf("Live after Close = %d, want 0", rec.reg.Live())
	}
}

func TestState_RejectsNonImagesAndKeepsSelection(t *testing.T) {
	reg := preview.NewRegistry()
	s := New(reg, nil)
	if err := s.AttachFile("a.png", pngBytes); err != nil {
		t.Fatalf("AttachFile returned error: %v", err)
	}
	before := s.PreviewURL()

	err := s.AttachFile("notes.txt", []byte("plain text, not an image"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("err = %v, want ErrNotImage", err)
	}
	if s.PreviewURL() != before || reg.Live() != 1 {
		t.Fatalf("rejected file replaced the selection")
	}

	small := New(reg, nil, WithMaxFileSize(4))
	if err := small.AttachFile("a.png", pngBytes); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestState_RemoveFileRestoresExistingMedia(t *testing.T) {
	reg := preview.NewRegistry()
	existing := "http://cms.test/storage/news/old.png"
	s := New(reg, map[string]string{MainField: "Lama"}, WithExistingMedia(existing))
	if s.PreviewURL() != existing {
		t.Fatalf("PreviewURL = %q, want existing media", s.PreviewURL())
	}
	if err := s.AttachFile("a.png", pngBytes); err != nil {
		t.Fatalf("AttachFile returned error: %v", err)
	}
	if !preview.IsLocal(s.PreviewURL()) {
		t.Fatalf("PreviewURL = %q, want local preview", s.PreviewURL())
	}
	s.RemoveFile()
	if s.PreviewURL() != existing || reg.Live() != 0 {
		t.Fatalf("RemoveFile: url=%q live=%d", s.PreviewURL(), reg.Live())
	}
}

func TestState_SelectFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, pngBytes, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	s := New(preview.NewRegistry(), nil)
	if err := s.SelectFile(path); err != nil {
		t.Fatalf("SelectFile returned error: %v", err)
	}
	if f := s.File(); f == nil || f.Name != "logo.png" || f.MIME != "image/png" {
		t.Fatalf("File = %#v, want logo.png image/png", f)
	}
	if err := s.SelectFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("SelectFile on missing path returned nil error")
	}
}

func TestState_ValidateGatesBlankRequiredFields(t *testing.T) {
	s := New(nil, map[string]string{MainField: "  ", "content": "isi"},
		WithRequiredMessage(func(field string) string { return field + " wajib diisi." }))
	s.Require(MainField, "content").Require(MainField)

	if s.Validate() {
		t.Fatalf("Validate returned true with blank main field")
	}
	if got := s.Error(MainField); got != MainField+" wajib diisi." {
		t.Fatalf("Error(mainField) = %q", got)
	}
	if s.Error("content") != "" {
		t.Fatalf("non-blank field got an error")
	}

	s.SetField(MainField, "Rilis")
	if !s.Validate() {
		t.Fatalf("Validate returned false with all required fields set")
	}
}

func TestState_ApplyServerErrorsMapsMainKey(t *testing.T) {
	s := New(nil, nil)
	s.ApplyServerErrors(map[string][]string{
		"title":    {"The title field is required.", "second"},
		"image":    {"The image must be an image."},
		"title_en": {},
	}, "title")

	want := map[string]string{
		MainField: "The title field is required.",
		"image":   "The image must be an image.",
	}
	if !reflect.DeepEqual(s.Errors(), want) {
		t.Fatalf("Errors = %v, want %v", s.Errors(), want)
	}
}

func TestState_BuildPayloadRenamesMainFieldAndAttachesFile(t *testing.T) {
	s := New(preview.NewRegistry(), map[string]string{MainField: "Produk A", "name_en": "Product A"})
	if err := s.AttachFile("a.png", pngBytes); err != nil {
		t.Fatalf("AttachFile returned error: %v", err)
	}
	mp := s.BuildPayload("name", map[string]string{"category_id": "3"})

	if _, ok := mp.Value(MainField); ok {
		t.Fatalf("payload still carries %s", MainField)
	}
	if v, _ := mp.Value("name"); v != "Produk A" {
		t.Fatalf("name = %q, want Produk A", v)
	}
	if v, _ := mp.Value("category_id"); v != "3" {
		t.Fatalf("category_id = %q, want 3", v)
	}
	f := mp.File()
	if f == nil || f.Field != "image" || f.Name != "a.png" || !strings.HasPrefix(f.ContentType, "image/") {
		t.Fatalf("file = %#v, want image part", f)
	}
}
