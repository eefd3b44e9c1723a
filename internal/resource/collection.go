package resource

import (
	"context"
	"net/http"
	"sync"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/cache"
)

// Params describe one list resource.
type Params[T Record] struct {
	// Name is the entity key used for notification copy ("news").
	Name string
	// ListKey is the GET path and cache key ("/api/admin/news").
	ListKey string
	// Endpoint is the mutation base path ("/api/admin/news").
	Endpoint string
	// MainKey is the backend name of the primary label field.
	MainKey string
	// Multipart marks media-bearing resources submitted as form-data.
	Multipart bool
	// ReadOnly disables mutations.
	ReadOnly bool
	// Invalidates lists keys revalidated after a successful mutation.
	Invalidates []string
	// InvalidatesFor names further keys that depend on one record.
	InvalidatesFor func(T) []string
	// Label renders a record in prompts.
	Label func(T) string
}

// Collection binds a list resource to the shared cache.
type Collection[T Record] struct {
	params  Params[T]
	deps    Deps
	release func()
	flight  inflight
}

// NewCollection mounts p.ListKey in the store.
func NewCollection[T Record](deps Deps, p Params[T]) *Collection[T] {
	c := &Collection[T]{params: p, deps: deps}
	c.release = deps.Store.Register(p.ListKey, func(ctx context.Context) (any, error) {
		var items []T
		if err := deps.Client.Get(ctx, p.ListKey, &items); err != nil {
			return nil, err
		}
		return items, nil
	})
	return c
}

// Params returns the resource description.
func (c *Collection[T]) Params() Params[T] { return c.params }

// Key returns the cache key.
func (c *Collection[T]) Key() string { return c.params.ListKey }

// Load fetches the list.
func (c *Collection[T]) Load(ctx context.Context) error {
	return c.deps.Store.Revalidate(ctx, c.params.ListKey)
}

// State returns a copy of the cached list.
func (c *Collection[T]) State() State[[]T] {
	e := c.deps.Store.Read(c.params.ListKey)
	items, _ := e.Data.([]T)
	return State[[]T]{
		Data:         append([]T(nil), items...),
		Err:          e.Err,
		IsLoading:    e.IsLoading,
		IsValidating: e.IsValidating,
	}
}

// Find returns the cached record with id.
func (c *Collection[T]) Find(id int64) (T, bool) {
	e := c.deps.Store.Read(c.params.ListKey)
	items, _ := e.Data.([]T)
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// IsMutating reports whether a create/update/delete is in flight.
func (c *Collection[T]) IsMutating() bool { return c.flight.active() }

// Close unmounts the list key.
func (c *Collection[T]) Close() {
	if c.release != nil {
		c.release()
	}
}

// Create posts body and appends the created record to the cached list.
func (c *Collection[T]) Create(ctx context.Context, body api.Body, cb Callbacks[T]) (T, error) {
	var created T
	if c.params.ReadOnly {
		return created, ErrReadOnly
	}
	m := c.mutation()
	c.flight.begin()
	defer c.flight.end()

	id := m.pending("create")
	if err := c.deps.Client.Send(ctx, http.MethodPost, c.params.Endpoint, body, &created); err != nil {
		return created, m.fail(id, "create", err, cb.OnValidationError)
	}
	c.deps.Store.Apply(c.params.ListKey, appendUnique(created))
	m.succeed(id, "create")
	if cb.OnSuccess != nil {
		cb.OnSuccess(created)
	}
	m.invalidate(ctx, c.invalidated(created))
	return created, nil
}

// Update sends body for record id and replaces it in the cached list.
// Multipart bodies travel as POST with a PUT override.
func (c *Collection[T]) Update(ctx context.Context, recordID int64, body api.Body, cb Callbacks[T]) (T, error) {
	var updated T
	if c.params.ReadOnly {
		return updated, ErrReadOnly
	}
	if mp, ok := body.(*api.Multipart); ok {
		mp.MethodOverride(http.MethodPut)
	}
	m := c.mutation()
	c.flight.begin()
	defer c.flight.end()

	id := m.pending("update")
	if err := c.deps.Client.Send(ctx, http.MethodPut, memberPath(c.params.Endpoint, recordID), body, &updated); err != nil {
		return updated, m.fail(id, "update", err, cb.OnValidationError)
	}
	c.deps.Store.Apply(c.params.ListKey, replace(updated))
	m.succeed(id, "update")
	if cb.OnSuccess != nil {
		cb.OnSuccess(updated)
	}
	m.invalidate(ctx, c.invalidated(updated))
	return updated, nil
}

// Delete asks for confirmation, removes the record from the cached list
// right away and then calls the backend. A declined confirmation returns
// (false, nil) without touching anything. When the request fails the list
// is refetched so the record reappears.
func (c *Collection[T]) Delete(ctx context.Context, recordID int64, cb Callbacks[T]) (bool, error) {
	if c.params.ReadOnly {
		return false, ErrReadOnly
	}
	if c.deps.Confirm == nil {
		return false, ErrNoConfirmer
	}
	record, _ := c.Find(recordID)
	ok, err := c.deps.Confirm.Confirm(ctx, c.prompt(record))
	if err != nil || !ok {
		return false, err
	}

	m := c.mutation()
	c.flight.begin()
	defer c.flight.end()

	id := m.pending("delete")
	_ = c.deps.Store.Mutate(ctx, c.params.ListKey, remove[T](recordID), false)
	if err := c.deps.Client.Send(ctx, http.MethodDelete, memberPath(c.params.Endpoint, recordID), nil, nil); err != nil {
		_ = c.deps.Store.Revalidate(ctx, c.params.ListKey)
		return true, m.fail(id, "delete", err, cb.OnValidationError)
	}
	c.deps.Store.Apply(c.params.ListKey, remove[T](recordID))
	m.succeed(id, "delete")
	if cb.OnSuccess != nil {
		cb.OnSuccess(record)
	}
	m.invalidate(ctx, c.invalidated(record))
	return true, nil
}

func (c *Collection[T]) invalidated(record T) []string {
	if c.params.InvalidatesFor == nil {
		return c.params.Invalidates
	}
	keys := append([]string(nil), c.params.Invalidates...)
	return append(keys, c.params.InvalidatesFor(record)...)
}

func (c *Collection[T]) mutation() mutation {
	return mutation{deps: c.deps, entity: c.params.Name}
}

func (c *Collection[T]) prompt(record T) string {
	label := ""
	if c.params.Label != nil {
		label = c.params.Label(record)
	}
	if c.deps.Texts == nil {
		return "delete " + c.params.Name + " " + label
	}
	return c.deps.Texts.Tf("confirm.delete", map[string]string{
		"entity": c.deps.Texts.T("entity." + c.params.Name),
		"label":  label,
	})
}

// appendUnique adds item, replacing an entry with the same id so a record
// that already arrived through a revalidation is never listed twice.
func appendUnique[T Record](item T) cache.Updater {
	return func(cur any) any {
		list, _ := cur.([]T)
		out := make([]T, 0, len(list)+1)
		found := false
		for _, existing := range list {
			if existing.RecordID() == item.RecordID() {
				out = append(out, item)
				found = true
				continue
			}
			out = append(out, existing)
		}
		if !found {
			out = append(out, item)
		}
		return out
	}
}

func replace[T Record](item T) cache.Updater {
	return func(cur any) any {
		list, _ := cur.([]T)
		out := make([]T, len(list))
		for i, existing := range list {
			if existing.RecordID() == item.RecordID() {
				out[i] = item
				continue
			}
			out[i] = existing
		}
		return out
	}
}

func remove[T Record](id int64) cache.Updater {
	return func(cur any) any {
		list, _ := cur.([]T)
		out := make([]T, 0, len(list))
		for _, existing := range list {
			if existing.RecordID() != id {
				out = append(out, existing)
			}
		}
		return out
	}
}

type inflight struct {
	mu sync.Mutex
	n  int
}

func (f *inflight) begin() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *inflight) end() {
	f.mu.Lock()
	f.n--
	f.mu.Unlock()
}

func (f *inflight) active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n > 0
}
