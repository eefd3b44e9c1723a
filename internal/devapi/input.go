package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	overrideField = "_method"
	imageField    = "image"
)

// upload is a received image, already sniffed.
type upload struct {
	name string
	mime *mimetype.MIME
	data []byte
}

// input is a request's fields, from either JSON or form-data.
type input struct {
	values map[string]string
	file   *upload
}

func (in input) has(name string) bool {
	_, ok := in.values[name]
	return ok
}

func (in input) get(name string) string { return in.values[name] }

// set copies field name into dst when the request carries it.
func (in input) set(dst *string, name string) {
	if v, ok := in.values[name]; ok {
		*dst = strings.TrimSpace(v)
	}
}

func (in input) setInt(dst *int64, name string) {
	if v, ok := in.values[name]; ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			n = 0
		}
		*dst = n
	}
}

// methodOverride turns a form-data POST carrying _method into that method.
// It must run before routing.
func methodOverride(maxUpload int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && isForm(r) {
				r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)
				if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
					writeMessage(w, http.StatusRequestEntityTooLarge, "The request is too large.")
					return
				}
				switch m := strings.ToUpper(r.FormValue(overrideField)); m {
				case http.MethodPut, http.MethodPatch, http.MethodDelete:
					r.Method = m
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "multipart/form-data" || ct == "application/x-www-form-urlencoded"
}

// readInput collects the request fields. File problems come back as field
// errors; malformed bodies as an error.
func readInput(r *http.Request, maxUpload int64) (input, fieldErrors, error) {
	in := input{values: map[string]string{}}
	if !isForm(r) {
		if r.Body == nil || r.ContentLength == 0 {
			return in, nil, nil
		}
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return in, nil, fmt.Errorf("decode body: %w", err)
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
				in.values[k] = ""
			case string:
				in.values[k] = t
			case json.Number:
				in.values[k] = t.String()
			case bool:
				in.values[k] = strconv.FormatBool(t)
			}
		}
		return in, nil, nil
	}

	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return in, nil, fmt.Errorf("parse form: %w", err)
		}
	}
	for k, vs := range r.Form {
		if k == overrideField || len(vs) == 0 {
			continue
		}
		in.values[k] = vs[0]
	}

	file, header, err := r.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil, nil
	case err != nil:
		return in, nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return in, nil, fmt.Errorf("read upload: %w", err)
	}
	errs := fieldErrors{}
	if int64(len(data)) > maxUpload {
		errs.add(imageField, fmt.Sprintf("The image may not be greater than %d kilobytes.", maxUpload/1024))
		return in, errs, nil
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		errs.add(imageField, "The image must be an image.")
		return in, errs, nil
	}
	in.file = &upload{name: header.Filename, mime: mt, data: data}
	return in, nil, nil
}
