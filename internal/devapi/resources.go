package devapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// resourceDef describes one CRUD table.
type resourceDef[T any] struct {
	path  string
	name  string
	order string
	id    func(rec *T) int64
	bind  func(rec *T, in input)
	rules func(ctx context.Context, s *Server, rec *T) error
}

type mediaHolder interface{ mediaRef() *Media }

type toucher interface{ touch(time.Time) }

var newsDef = resourceDef[newsRow]{
	path:  "news",
	name:  "news",
	order: "id ASC",
	id:    func(n *newsRow) int64 { return n.ID },
	bind: func(n *newsRow, in input) {
		in.set(&n.Title, "title")
		in.set(&n.TitleEN, "title_en")
		in.set(&n.Excerpt, "excerpt")
		in.set(&n.ExcerptEN, "excerpt_en")
		in.set(&n.Content, "content")
		in.set(&n.ContentEN, "content_en")
		in.set(&n.PublishedAt, "published_at")
	},
	rules: func(ctx context.Context, _ *Server, n *newsRow) error {
		return validation.ValidateStructWithContext(ctx, n,
			validation.Field(&n.Title, required("title"), validation.Length(0, 255)),
			validation.Field(&n.PublishedAt, dateRule("published at")),
		)
	},
}

var categoryDef = resourceDef[categoryRow]{
	path:  "categories",
	name:  "category",
	order: "id ASC",
	id:    func(c *categoryRow) int64 { return c.ID },
	bind: func(c *categoryRow, in input) {
		in.set(&c.Name, "name")
		in.set(&c.NameEN, "name_en")
		in.set(&c.Description, "description")
		in.set(&c.DescriptionEN, "description_en")
	},
	rules: func(ctx context.Context, _ *Server, c *categoryRow) error {
		return validation.ValidateStructWithContext(ctx, c,
			validation.Field(&c.Name, required("name"), validation.Length(0, 255)),
		)
	},
}

var productDef = resourceDef[productRow]{
	path:  "products",
	name:  "product",
	order: "id ASC",
	id:    func(p *productRow) int64 { return p.ID },
	bind: func(p *productRow, in input) {
		in.setInt(&p.CategoryID, "category_id")
		in.set(&p.Name, "name")
		in.set(&p.NameEN, "name_en")
		in.set(&p.Description, "description")
		in.set(&p.DescriptionEN, "description_en")
	},
	rules: func(ctx context.Context, s *Server, p *productRow) error {
		return validation.ValidateStructWithContext(ctx, p,
			validation.Field(&p.Name, required("name"), validation.Length(0, 255)),
			validation.Field(&p.CategoryID, required("category id"), validation.WithContext(func(ctx context.Context, value any) error {
				id, _ := value.(int64)
				ok, err := s.db.NewSelect().Model((*categoryRow)(nil)).Where("id = ?", id).Exists(ctx)
				if err != nil {
					return validation.NewInternalError(err)
				}
				if !ok {
					return validation.NewError("validation_exists", "The selected category id is invalid.")
				}
				return nil
			})),
		)
	},
}

var customerDef = resourceDef[customerRow]{
	path:  "customers",
	name:  "customer",
	order: "id ASC",
	id:    func(c *customerRow) int64 { return c.ID },
	bind: func(c *customerRow, in input) {
		in.set(&c.Name, "name")
		in.set(&c.Website, "website")
	},
	rules: func(ctx context.Context, _ *Server, c *customerRow) error {
		return validation.ValidateStructWithContext(ctx, c,
			validation.Field(&c.Name, required("name"), validation.Length(0, 255)),
			validation.Field(&c.Website, is.URL.Error("The website must be a valid URL.")),
		)
	},
}

var advantageDef = resourceDef[advantageRow]{
	path:  "advantages",
	name:  "advantage",
	order: "id ASC",
	id:    func(a *advantageRow) int64 { return a.ID },
	bind: func(a *advantageRow, in input) {
		in.set(&a.Title, "title")
		in.set(&a.TitleEN, "title_en")
		in.set(&a.Description, "description")
		in.set(&a.DescriptionEN, "description_en")
		in.set(&a.Icon, "icon")
	},
	rules: func(ctx context.Context, _ *Server, a *advantageRow) error {
		return validation.ValidateStructWithContext(ctx, a,
			validation.Field(&a.Title, required("title"), validation.Length(0, 255)),
		)
	},
}

var heroDef = resourceDef[heroRow]{
	path:  "hero",
	name:  "hero",
	order: "id ASC",
	id:    func(h *heroRow) int64 { return h.ID },
	bind: func(h *heroRow, in input) {
		in.set(&h.Page, "page")
		in.set(&h.Title, "title")
		in.set(&h.TitleEN, "title_en")
		in.set(&h.Subtitle, "subtitle")
		in.set(&h.SubtitleEN, "subtitle_en")
	},
	rules: func(ctx context.Context, s *Server, h *heroRow) error {
		return validation.ValidateStructWithContext(ctx, h,
			validation.Field(&h.Page, required("page"), validation.WithContext(func(ctx context.Context, value any) error {
				page, _ := value.(string)
				taken, err := s.db.NewSelect().Model((*heroRow)(nil)).
					Where("page = ?", page).Where("id != ?", h.ID).Exists(ctx)
				if err != nil {
					return validation.NewInternalError(err)
				}
				if taken {
					return validation.NewError("validation_unique", "The page has already been taken.")
				}
				return nil
			})),
			validation.Field(&h.Title, required("title"), validation.Length(0, 255)),
		)
	},
}

// mountResource registers the admin routes of def.
func mountResource[T any](r chi.Router, s *Server, def resourceDef[T]) {
	base := "/" + def.path
	r.Get(base, list(s, def))
	r.Post(base, create(s, def))
	r.Put(base+"/{id}", update(s, def))
	r.Delete(base+"/{id}", remove(s, def))
}

func list[T any](s *Server, def resourceDef[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := make([]T, 0)
		if err := s.db.NewSelect().Model(&items).Order(def.order).Scan(r.Context()); err != nil {
			writeServerError(w, fmt.Errorf("list %s: %w", def.path, err))
			return
		}
		for i := range items {
			decorate(r, &items[i])
		}
		writeData(w, http.StatusOK, items)
	}
}

func create[T any](s *Server, def resourceDef[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := s.readValid(w, r)
		if !ok {
			return
		}
		rec := new(T)
		def.bind(rec, in)
		if !checkRules(s, w, r, def, rec) {
			return
		}
		if !attach(s, w, def, rec, in.file) {
			return
		}
		stamp(rec, s.now())
		if _, err := s.db.NewInsert().Model(rec).Exec(r.Context()); err != nil {
			writeServerError(w, fmt.Errorf("insert %s: %w", def.path, err))
			return
		}
		log.Printf("[devapi] created %s %d", def.name, def.id(rec))
		decorate(r, rec)
		writeJSON(w, http.StatusCreated, map[string]any{"message": capitalize(def.name) + " created.", "data": rec})
	}
}

func update[T any](s *Server, def resourceDef[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := find(s, w, r, def)
		if !ok {
			return
		}
		in, ok := s.readValid(w, r)
		if !ok {
			return
		}
		previous := imageOf(rec)
		def.bind(rec, in)
		if !checkRules(s, w, r, def, rec) {
			return
		}
		if !attach(s, w, def, rec, in.file) {
			return
		}
		stamp(rec, s.now())
		if _, err := s.db.NewUpdate().Model(rec).WherePK().Exec(r.Context()); err != nil {
			writeServerError(w, fmt.Errorf("update %s: %w", def.path, err))
			return
		}
		if in.file != nil && previous != "" {
			s.discard(previous)
		}
		decorate(r, rec)
		writeJSON(w, http.StatusOK, map[string]any{"message": capitalize(def.name) + " updated.", "data": rec})
	}
}

func remove[T any](s *Server, def resourceDef[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := find(s, w, r, def)
		if !ok {
			return
		}
		if _, err := s.db.NewDelete().Model(rec).WherePK().Exec(r.Context()); err != nil {
			writeServerError(w, fmt.Errorf("delete %s: %w", def.path, err))
			return
		}
		if img := imageOf(rec); img != "" {
			s.discard(img)
		}
		log.Printf("[devapi] deleted %s %d", def.name, def.id(rec))
		writeMessage(w, http.StatusOK, capitalize(def.name)+" deleted.")
	}
}


// find loads the {id} record, answering 404 itself when it is missing.
func find[T any](s *Server, w http.ResponseWriter, r *http.Request, def resourceDef[T]) (*T, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Not Found")
		return nil, false
	}
	rec := new(T)
	err = s.db.NewSelect().Model(rec).Where("?TableAlias.id = ?", id).Limit(1).Scan(r.Context())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("No query results for %s %d.", def.name, id))
		return nil, false
	case err != nil:
		writeServerError(w, fmt.Errorf("find %s %d: %w", def.path, id, err))
		return nil, false
	}
	return rec, true
}

// readValid reads the request body, answering 400 or 422 itself.
func (s *Server) readValid(w http.ResponseWriter, r *http.Request) (input, bool) {
	in, errs, err := readInput(r, s.cfg.MaxUploadSize)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return in, false
	}
	return in, true
}

func checkRules[T any](s *Server, w http.ResponseWriter, r *http.Request, def resourceDef[T], rec *T) bool {
	errs, err := asFieldErrors(def.rules(r.Context(), s, rec))
	if err != nil {
		writeServerError(w, fmt.Errorf("validate %s: %w", def.path, err))
		return false
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return false
	}
	return true
}

// attach stores file for media-bearing records. Files sent to other
// resources are ignored.
func attach[T any](s *Server, w http.ResponseWriter, def resourceDef[T], rec *T, file *upload) bool {
	holder, ok := any(rec).(mediaHolder)
	if file == nil || !ok {
		return true
	}
	rel, err := s.save(def.path, file)
	if err != nil {
		writeServerError(w, err)
		return false
	}
	holder.mediaRef().Image = rel
	return true
}

// save writes file under the resource's storage folder and returns its
// storage-relative path.
func (s *Server) save(folder string, file *upload) (string, error) {
	rel := path.Join(folder, uuid.NewString()+file.mime.Extension())
	dst := s.storagePath(rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(dst, file.data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return rel, nil
}

func (s *Server) discard(rel string) {
	if err := os.Remove(s.storagePath(rel)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[devapi] remove %s: %v", rel, err)
	}
}

func imageOf(rec any) string {
	if holder, ok := rec.(mediaHolder); ok {
		return holder.mediaRef().Image
	}
	return ""
}

func decorate(r *http.Request, rec any) {
	if holder, ok := rec.(mediaHolder); ok {
		m := holder.mediaRef()
		m.ImageURL = mediaURL(r, m.Image)
	}
}

func stamp(rec any, now time.Time) {
	if t, ok := rec.(toucher); ok {
		t.touch(now)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
