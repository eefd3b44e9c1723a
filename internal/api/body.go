package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
)

// Body is a request payload.
type Body interface {
	Encode() (io.Reader, string, error)
}

type jsonBody struct {
	value any
}

// JSON wraps a structured payload sent as application/json.
func JSON(v any) Body {
	return jsonBody{value: v}
}

func (b jsonBody) Encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.value)
	if err != nil {
		return nil, "", fmt.Errorf("marshal json: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// File is an attachment carried by a multipart payload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Multipart is a form-data payload for media-bearing resources.
type Multipart struct {
	fields   map[string]string
	order    []string
	file     *File
	override string
}

// NewMultipart returns an empty multipart payload.
func NewMultipart() *Multipart {
	return &Multipart{fields: make(map[string]string)}
}

// Set adds or replaces a text field, keeping first-insertion order.
func (m *Multipart) Set(name, value string) *Multipart {
	if _, ok := m.fields[name]; !ok {
		m.order = append(m.order, name)
	}
	m.fields[name] = value
	return m
}

// Value returns a text field and whether it is present.
func (m *Multipart) Value(name string) (string, bool) {
	v, ok := m.fields[name]
	return v, ok
}

// Fields returns the text field names in insertion order.
func (m *Multipart) Fields() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Attach sets the file part.
func (m *Multipart) Attach(f File) *Multipart {
	if f.Field == "" {
		f.Field = "image"
	}
	m.file = &f
	return m
}

// File returns the attached file, if any.
func (m *Multipart) File() *File {
	return m.file
}

// MethodOverride marks the payload for a spoofed method (e.g. PUT). The
// override travels as the _method field and the request goes out as POST,
// because form-data bodies cannot be sent with a native PUT.
func (m *Multipart) MethodOverride(method string) *Multipart {
	m.override = method
	return m
}

// Override returns the spoofed method, empty when none.
func (m *Multipart) Override() string {
	return m.override
}

// Encode implements Body.
func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := m.Fields()
	if len(names) != len(m.fields) {
		names = names[:0]
		for name := range m.fields {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		if err := w.WriteField(name, m.fields[name]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if m.override != "" {
		if err := w.WriteField("_method", m.override); err != nil {
			return nil, "", fmt.Errorf("write method override: %w", err)
		}
	}
	if m.file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, m.file.Field, m.file.Name))
		ct := m.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header.Set("Content-Type", ct)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(m.file.Data); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
