package form

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/five82/sitedeck/internal/api"
)

// MainField is the generic slot for a record's primary label. BuildPayload
// renames it to the backend key ("title" or "name").
const MainField = "mainField"

// DefaultMaxFileSize matches the backend's upload limit.
const DefaultMaxFileSize = 2 << 20

var (
	// ErrNotImage is returned when a selected file is not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrTooLarge is returned when a selected file exceeds the size limit.
	ErrTooLarge = errors.New("file is too large")
)

// Previewer issues and releases local preview URLs.
type Previewer interface {
	Create(data []byte, mime string) string
	Revoke(url string) bool
}

// Attachment is the file selected in the form.
type Attachment struct {
	Name       string
	MIME       string
	Data       []byte
	PreviewURL string
}

// State holds the values and errors of one create/edit form.
type State struct {
	initial  map[string]string
	values   map[string]string
	errors   map[string]string
	required []string

	previews    Previewer
	file        *Attachment
	existingURL string
	maxFileSize int

	requiredMessage func(field string) string
}

// Option customises a State.
type Option func(*State)

// WithExistingMedia sets the server media URL shown when no file is
// selected (edit forms).
func WithExistingMedia(url string) Option {
	return func(s *State) {
		s.existingURL = url
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// WithRequiredMessage sets the message used by Validate.
func WithRequiredMessage(fn func(field string) string) Option {
	return func(s *State) {
		if fn != nil {
			s.requiredMessage = fn
		}
	}
}

// New returns a form prefilled with initial.
func New(previews Previewer, initial map[string]string, opts ...Option) *State {
	s := &State{
		initial:     maps.Clone(initial),
		previews:    previews,
		maxFileSize: DefaultMaxFileSize,
		requiredMessage: func(field string) string {
			return field + " is required."
		},
	}
	if s.initial == nil {
		s.initial = map[string]string{}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.values = maps.Clone(s.initial)
	s.errors = map[string]string{}
	return s
}

// Value returns one field value.
func (s *State) Value(name string) string {
	return s.values[name]
}

// Values returns a copy of all field values.
func (s *State) Values() map[string]string {
	return maps.Clone(s.values)
}

// SetField updates name and clears its error.
func (s *State) SetField(name, value string) {
	s.values[name] = value
	delete(s.errors, name)
}

// Error returns the error shown for name.
func (s *State) Error(name string) string {
	return s.errors[name]
}

// Errors returns a copy of the error map.
func (s *State) Errors() map[string]string {
	return maps.Clone(s.errors)
}

// HasErrors reports whether any field has an error.
func (s *State) HasErrors() bool {
	return len(s.errors) > 0
}

// SetError sets the message for name.
func (s *State) SetError(name, msg string) {
	s.errors[name] = msg
}

// ClearErrors removes the errors for names, or all errors when none given.
func (s *State) ClearErrors(names ...string) {
	if len(names) == 0 {
		clear(s.errors)
		return
	}
	for _, name := range names {
		delete(s.errors, name)
	}
}

// Reset restores the initial values, clears errors and releases the
// selected file's preview.
func (s *State) Reset() {
	s.values = maps.Clone(s.initial)
	clear(s.errors)
	s.releaseFile()
}

// Require marks fields that must be non-blank before submit.
func (s *State) Require(names ...string) *State {
	for _, name := range names {
		if !slices.Contains(s.required, name) {
			s.required = append(s.required, name)
		}
	}
	return s
}

// Validate checks required fields and records an error for each blank one.
// It reports whether the form may be submitted.
func (s *State) Validate() bool {
	ok := true
	for _, name := range s.required {
		rule := validation.Required.Error(s.requiredMessage(name))
		if err := validation.Validate(strings.TrimSpace(s.values[name]), rule); err != nil {
			s.errors[name] = err.Error()
			ok = false
		}
	}
	return ok
}

// ApplyServerErrors stores the first message for each field of a 422
// response. The backend's mainKey is mapped to MainField.
func (s *State) ApplyServerErrors(errs map[string][]string, mainKey string) {
	for field, msgs := range errs {
		if len(msgs) == 0 {
			continue
		}
		if field == mainKey {
			field = MainField
		}
		s.errors[field] = msgs[0]
	}
}

// BuildPayload serialises the current values into a multipart body, renaming
// MainField to mainKey and attaching the selected file. extra fields are
// added after the form's own fields.
func (s *State) BuildPayload(mainKey string, extra map[string]string) *api.Multipart {
	mp := api.NewMultipart()
	for _, name := range slices.Sorted(maps.Keys(s.values)) {
		key := name
		if name == MainField {
			key = mainKey
		}
		mp.Set(key, s.values[name])
	}
	for _, name := range slices.Sorted(maps.Keys(extra)) {
		mp.Set(name, extra[name])
	}
	if s.file != nil {
		mp.Attach(api.File{Field: "image", Name: s.file.Name, ContentType: s.file.MIME, Data: s.file.Data})
	}
	return mp
}

// SelectFile reads path and attaches it.
func (s *State) SelectFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > int64(s.maxFileSize) {
		return ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return s.AttachFile(filepath.Base(path), data)
}

// AttachFile validates data as an image, releases the previous preview and
// acquires a new one. A rejected file leaves the current selection intact.
func (s *State) AttachFile(name string, data []byte) error {
	if len(data) > s.maxFileSize {
		return ErrTooLarge
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}
	s.releaseFile()
	att := &Attachment{Name: name, MIME: mtype.String(), Data: data}
	if s.previews != nil {
		att.PreviewURL = s.previews.Create(data, att.MIME)
	}
	s.file = att
	return nil
}

// RemoveFile drops the selection. Edit forms fall back to the existing
// server media.
func (s *State) RemoveFile() {
	s.releaseFile()
}

// File returns the selected file, nil when none.
func (s *State) File() *Attachment {
	return s.file
}

// PreviewURL returns what the image slot should show: the selected file's
// preview, else the existing server media, else "".
func (s *State) PreviewURL() string {
	if s.file != nil {
		return s.file.PreviewURL
	}
	return s.existingURL
}

// Close releases the preview. Call it when the form is discarded.
func (s *State) Close() {
	s.releaseFile()
}

func (s *State) releaseFile() {
	if s.file == nil {
		return
	}
	if s.previews != nil && s.file.PreviewURL != "" {
		s.previews.Revoke(s.file.PreviewURL)
	}
	s.file = nil
}
