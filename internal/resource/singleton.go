package resource

import (
	"context"
	"net/http"

	"github.com/five82/sitedeck/internal/api"
)

// SingletonParams describe a single-record resource.
type SingletonParams[T any] struct {
	Name string
	// Key is the GET path and cache key.
	Key string
	// UpdatePath returns where to send updates given the cached record.
	UpdatePath func(current T) (string, error)
	// Multipart marks media-bearing resources submitted as form-data.
	Multipart   bool
	ReadOnly    bool
	Invalidates []string
}

// Singleton binds a single-record resource to the shared cache.
type Singleton[T any] struct {
	params  SingletonParams[T]
	deps    Deps
	release func()
	flight  inflight
}

// NewSingleton mounts p.Key in the store.
func NewSingleton[T any](deps Deps, p SingletonParams[T]) *Singleton[T] {
	s := &Singleton[T]{params: p, deps: deps}
	s.release = deps.Store.Register(p.Key, func(ctx context.Context) (any, error) {
		var v T
		if err := deps.Client.Get(ctx, p.Key, &v); err != nil {
			return nil, err
		}
		return v, nil
	})
	return s
}

// Params returns the resource description.
func (s *Singleton[T]) Params() SingletonParams[T] { return s.params }

// Key returns the cache key.
func (s *Singleton[T]) Key() string { return s.params.Key }

// Load fetches the record.
func (s *Singleton[T]) Load(ctx context.Context) error {
	return s.deps.Store.Revalidate(ctx, s.params.Key)
}

// State returns the cached record. Data is the zero value until loaded.
func (s *Singleton[T]) State() State[T] {
	e := s.deps.Store.Read(s.params.Key)
	v, _ := e.Data.(T)
	return State[T]{Data: v, Err: e.Err, IsLoading: e.IsLoading, IsValidating: e.IsValidating}
}

// Loaded reports whether a record is cached.
func (s *Singleton[T]) Loaded() bool {
	_, ok := s.deps.Store.Read(s.params.Key).Data.(T)
	return ok
}

// IsMutating reports whether an update is in flight.
func (s *Singleton[T]) IsMutating() bool { return s.flight.active() }

// Close unmounts the key.
func (s *Singleton[T]) Close() {
	if s.release != nil {
		s.release()
	}
}

// Update sends body and replaces the cached record with the response.
func (s *Singleton[T]) Update(ctx context.Context, body api.Body, cb Callbacks[T]) (T, error) {
	var updated T
	if s.params.ReadOnly {
		return updated, ErrReadOnly
	}
	m := mutation{deps: s.deps, entity: s.params.Name}

	path := s.params.Key
	if s.params.UpdatePath != nil {
		current, ok := s.deps.Store.Read(s.params.Key).Data.(T)
		if !ok {
			return updated, ErrNotLoaded
		}
		p, err := s.params.UpdatePath(current)
		if err != nil {
			return updated, err
		}
		path = p
	}
	if mp, ok := body.(*api.Multipart); ok {
		mp.MethodOverride(http.MethodPut)
	}

	s.flight.begin()
	defer s.flight.end()

	id := m.pending("update")
	if err := s.deps.Client.Send(ctx, http.MethodPut, path, body, &updated); err != nil {
		return updated, m.fail(id, "update", err, cb.OnValidationError)
	}
	s.deps.Store.Apply(s.params.Key, func(any) any { return updated })
	m.succeed(id, "update")
	if cb.OnSuccess != nil {
		cb.OnSuccess(updated)
	}
	m.invalidate(ctx, s.params.Invalidates)
	return updated, nil
}
