package ui

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/form"
	"github.com/five82/sitedeck/internal/i18n"
	"github.com/five82/sitedeck/internal/resource"
)

var errNotEditable = errors.New("section is not editable")

// field is one input of an edit form. name is the form key; the label
// field uses form.MainField and maps to the section's main key on submit.
type field struct {
	name     string
	label    string
	required bool
}

// column renders one list column of T.
type column[T any] struct {
	label  string
	weight int
	render func(item T, locale string) string
}

type row struct {
	id    int64
	cells []string
}

type sectionState struct {
	err        error
	loading    bool
	validating bool
	mutating   bool
}

// section adapts one resource to the list and form views.
type section interface {
	navKey() string
	entity() string
	load(ctx context.Context) error
	headers() []string
	weights() []int
	rows(locale string) []row
	state() sectionState

	fields() []field
	mainKey() string
	multipart() bool
	creatable() bool
	editable() bool
	deletable() bool
	// values returns the form values and current media URL of record id.
	values(id int64) (map[string]string, string, bool)

	create(ctx context.Context, body api.Body) error
	update(ctx context.Context, id int64, body api.Body) error
	remove(ctx context.Context, id int64) error
	close()
}

// collectionSection binds a resource.Collection to the views.
type collectionSection[T resource.Record] struct {
	nav      string
	coll     *resource.Collection[T]
	columns  []column[T]
	form     []field
	toValues func(T) map[string]string
	media    func(T) string
}

func (s *collectionSection[T]) navKey() string { return s.nav }
func (s *collectionSection[T]) entity() string { return s.coll.Params().Name }

func (s *collectionSection[T]) load(ctx context.Context) error { return s.coll.Load(ctx) }

func (s *collectionSection[T]) headers() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.label
	}
	return out
}

func (s *collectionSection[T]) weights() []int {
	out := make([]int, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.weight
	}
	return out
}

func (s *collectionSection[T]) rows(locale string) []row {
	items := s.coll.State().Data
	out := make([]row, 0, len(items))
	for _, item := range items {
		cells := make([]string, len(s.columns))
		for i, c := range s.columns {
			cells[i] = c.render(item, locale)
		}
		out = append(out, row{id: item.RecordID(), cells: cells})
	}
	return out
}

func (s *collectionSection[T]) state() sectionState {
	st := s.coll.State()
	return sectionState{err: st.Err, loading: st.IsLoading, validating: st.IsValidating, mutating: s.coll.IsMutating()}
}

func (s *collectionSection[T]) fields() []field { return s.form }
func (s *collectionSection[T]) mainKey() string { return s.coll.Params().MainKey }
func (s *collectionSection[T]) multipart() bool { return s.coll.Params().Multipart }
func (s *collectionSection[T]) creatable() bool { return !s.coll.Params().ReadOnly && len(s.form) > 0 }
func (s *collectionSection[T]) editable() bool { return s.creatable() }
func (s *collectionSection[T]) deletable() bool { return !s.coll.Params().ReadOnly }

func (s *collectionSection[T]) values(id int64) (map[string]string, string, bool) {
	item, ok := s.coll.Find(id)
	if !ok || s.toValues == nil {
		return nil, "", false
	}
	media := ""
	if s.media != nil {
		media = s.media(item)
	}
	return s.toValues(item), media, true
}

func (s *collectionSection[T]) create(ctx context.Context, body api.Body) error {
	_, err := s.coll.Create(ctx, body, resource.Callbacks[T]{})
	return err
}

func (s *collectionSection[T]) update(ctx context.Context, id int64, body api.Body) error {
	_, err := s.coll.Update(ctx, id, body, resource.Callbacks[T]{})
	return err
}

func (s *collectionSection[T]) remove(ctx context.Context, id int64) error {
	_, err := s.coll.Delete(ctx, id, resource.Callbacks[T]{})
	return err
}

func (s *collectionSection[T]) close() { s.coll.Close() }

// singletonSection shows a single record as a field/value list and edits it
// as a whole.
type singletonSection[T any] struct {
	nav      string
	single   *resource.Singleton[T]
	form     []field
	toValues func(T) map[string]string
	label    func(key string) string
}

func (s *singletonSection[T]) navKey() string { return s.nav }
func (s *singletonSection[T]) entity() string { return s.single.Params().Name }

func (s *singletonSection[T]) load(ctx context.Context) error { return s.single.Load(ctx) }

func (s *singletonSection[T]) headers() []string { return []string{"", ""} }
func (s *singletonSection[T]) weights() []int { return []int{1, 3} }

// rows lists one field per row; ids are field positions.
func (s *singletonSection[T]) rows(string) []row {
	if !s.single.Loaded() {
		return nil
	}
	values := s.toValues(s.single.State().Data)
	out := make([]row, 0, len(s.form))
	for i, f := range s.form {
		label := f.label
		if s.label != nil {
			label = s.label(label)
		}
		out = append(out, row{id: int64(i), cells: []string{label, values[f.name]}})
	}
	return out
}

func (s *singletonSection[T]) state() sectionState {
	st := s.single.State()
	return sectionState{err: st.Err, loading: st.IsLoading, validating: st.IsValidating, mutating: s.single.IsMutating()}
}

func (s *singletonSection[T]) fields() []field { return s.form }
func (s *singletonSection[T]) mainKey() string { return "" }
func (s *singletonSection[T]) multipart() bool { return s.single.Params().Multipart }
func (s *singletonSection[T]) creatable() bool { return false }
func (s *singletonSection[T]) editable() bool { return !s.single.Params().ReadOnly && s.single.Loaded() }
func (s *singletonSection[T]) deletable() bool { return false }

func (s *singletonSection[T]) values(int64) (map[string]string, string, bool) {
	if !s.single.Loaded() {
		return nil, "", false
	}
	return s.toValues(s.single.State().Data), "", true
}

func (s *singletonSection[T]) create(context.Context, api.Body) error { return errNotEditable }

func (s *singletonSection[T]) update(ctx context.Context, _ int64, body api.Body) error {
	_, err := s.single.Update(ctx, body, resource.Callbacks[T]{})
	return err
}

func (s *singletonSection[T]) remove(context.Context, int64) error { return errNotEditable }

func (s *singletonSection[T]) close() { s.single.Close() }

// publicSection previews what visitors see, in the active content locale.
type publicSection struct {
	news       *resource.Collection[api.News]
	products   *resource.Collection[api.Product]
	advantages *resource.Collection[api.Advantage]
	kinds      func(entity string) string
}

func (s *publicSection) navKey() string { return "nav.public" }
func (s *publicSection) entity() string { return "news" }

func (s *publicSection) load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.news.Load(ctx) })
	g.Go(func() error { return s.products.Load(ctx) })
	g.Go(func() error { return s.advantages.Load(ctx) })
	return g.Wait()
}

func (s *publicSection) headers() []string { return []string{"", "field.title", "field.description"} }
func (s *publicSection) weights() []int { return []int{1, 3, 5} }

func (s *publicSection) rows(locale string) []row {
	var out []row
	kind := func(entity string) string {
		if s.kinds == nil {
			return entity
		}
		return s.kinds(entity)
	}
	for _, n := range s.news.State().Data {
		out = append(out, row{id: n.ID, cells: []string{kind("news"), i18n.Pick(locale, n.Title, n.TitleEN), i18n.Pick(locale, n.Excerpt, n.ExcerptEN)}})
	}
	for _, p := range s.products.State().Data {
		out = append(out, row{id: p.ID, cells: []string{kind("product"), i18n.Pick(locale, p.Name, p.NameEN), i18n.Pick(locale, p.Description, p.DescriptionEN)}})
	}
	for _, a := range s.advantages.State().Data {
		out = append(out, row{id: a.ID, cells: []string{kind("advantage"), i18n.Pick(locale, a.Title, a.TitleEN), i18n.Pick(locale, a.Description, a.DescriptionEN)}})
	}
	return out
}

func (s *publicSection) state() sectionState {
	var st sectionState
	for _, part := range []resource.State[struct{}]{
		stateOf(s.news.State()), stateOf(s.products.State()), stateOf(s.advantages.State()),
	} {
		if st.err == nil {
			st.err = part.Err
		}
		st.loading = st.loading || part.IsLoading
		st.validating = st.validating || part.IsValidating
	}
	return st
}

func stateOf[T any](st resource.State[T]) resource.State[struct{}] {
	return resource.State[struct{}]{Err: st.Err, IsLoading: st.IsLoading, IsValidating: st.IsValidating}
}

func (s *publicSection) fields() []field { return nil }
func (s *publicSection) mainKey() string { return "" }
func (s *publicSection) multipart() bool { return false }
func (s *publicSection) creatable() bool { return false }
func (s *publicSection) editable() bool { return false }
func (s *publicSection) deletable() bool { return false }

func (s *publicSection) values(int64) (map[string]string, string, bool) { return nil, "", false }

func (s *publicSection) create(context.Context, api.Body) error { return resource.ErrReadOnly }
func (s *publicSection) update(context.Context, int64, api.Body) error { return resource.ErrReadOnly }
func (s *publicSection) remove(context.Context, int64) error { return resource.ErrReadOnly }

func (s *publicSection) close() {
	s.news.Close()
	s.products.Close()
	s.advantages.Close()
}

// payload serialises st for sec: multipart sections get form-data with the
// selected image, the rest a JSON object. MainField is renamed to the
// section's main key either way.
func payload(sec section, st *form.State) api.Body {
	if sec.multipart() {
		return st.BuildPayload(sec.mainKey(), nil)
	}
	values := st.Values()
	if v, ok := values[form.MainField]; ok {
		delete(values, form.MainField)
		values[sec.mainKey()] = v
	}
	return api.JSON(values)
}
