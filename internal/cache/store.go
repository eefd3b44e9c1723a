package cache

import (
	"context"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultFocusThrottle bounds how often focus events revalidate a key.
const DefaultFocusThrottle = 5 * time.Second

// Fetcher loads the network value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Updater derives the next cached value from the current one. It must not
// modify current in place.
type Updater func(current any) any

// Entry is the read view of a cached key.
type Entry struct {
	Data         any
	Err          error
	IsLoading    bool
	IsValidating bool
	UpdatedAt    time.Time
}

type entry struct {
	data    any
	hasData bool
	err     error

	// confirmed is the last value that came from the network (or from an
	// acknowledged mutation). It is what an unconfirmed write reverts to.
	confirmed    any
	hasConfirmed bool
	optimistic   bool

	seq        uint64
	validating int
	updatedAt  time.Time
	lastFocus  time.Time

	fetch Fetcher
	refs  int
}

// Store is a keyed stale-while-revalidate cache shared by every consumer of
// a key. Construct one per process and pass it by reference.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	listeners map[int]func(key string)
	nextID    int
	group     singleflight.Group

	focusThrottle time.Duration
	now           func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithFocusThrottle sets the minimum interval between focus revalidations of
// the same key. Zero or negative disables throttling.
func WithFocusThrottle(d time.Duration) Option {
	return func(s *Store) {
		s.focusThrottle = d
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:       make(map[string]*entry),
		listeners:     make(map[int]func(string)),
		focusThrottle: DefaultFocusThrottle,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register mounts key with its fetcher. The first registered fetcher wins
// while the key stays mounted. The returned func unmounts; cached data is
// kept after the last release.
func (s *Store) Register(key string, fetch Fetcher) (release func()) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.fetch == nil {
		e.fetch = fetch
	}
	e.refs++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			e.refs--
			if e.refs <= 0 {
				e.refs = 0
				e.fetch = nil
			}
		})
	}
}

// Mounted reports whether any consumer has key registered.
func (s *Store) Mounted(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.refs > 0
}

// Keys returns the mounted keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mountedLocked()
}

// Read returns the current view of key.
func (s *Store) Read(key string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{IsLoading: true}
	}
	return Entry{
		Data:         e.data,
		Err:          e.err,
		IsLoading:    !e.hasData && e.err == nil,
		IsValidating: e.validating > 0,
		UpdatedAt:    e.updatedAt,
	}
}

// Revalidate refetches key. Concurrent calls for the same key are coalesced
// until a local mutation starts a new generation. A fetch that started
// before a newer mutation is discarded. On failure the error is recorded
// and cached data kept, except that an unconfirmed write reverts to the
// last confirmed value. Unmounted keys are left alone.
func (s *Store) Revalidate(ctx context.Context, key string) error {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.fetch == nil {
		s.mu.Unlock()
		return nil
	}
	seq := e.seq
	fetch := e.fetch
	e.validating++
	s.mu.Unlock()
	s.notify(key)

	v, err, _ := s.group.Do(key+"#"+strconv.FormatUint(seq, 10), func() (any, error) {
		return fetch(ctx)
	})

	s.mu.Lock()
	e.validating--
	switch {
	case e.seq != seq:
		// superseded by a local mutation
	case err != nil:
		e.err = err
		if e.optimistic {
			e.data, e.hasData = e.confirmed, e.hasConfirmed
			e.optimistic = false
		}
	default:
		e.data, e.hasData = v, true
		e.confirmed, e.hasConfirmed = v, true
		e.optimistic = false
		e.err = nil
		e.updatedAt = s.now()
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("[cache] revalidate %s: %v", key, err)
	}
	s.notify(key)
	return err
}

// Mutate applies updater to the cached value immediately. The result is an
// unconfirmed write until the next successful fetch.
//
// When revalidate is set, Mutate refetches the key synchronously and only
// returns once that fetch has finished; callers that want the refetch in the
// background run Mutate in a goroutine. If the fetch fails the value reverts
// to the last confirmed one and the fetch error is returned.
func (s *Store) Mutate(ctx context.Context, key string, updater Updater, revalidate bool) error {
	s.mu.Lock()
	e := s.entryLocked(key)
	next := updater(e.data)
	if !e.optimistic {
		e.confirmed, e.hasConfirmed = e.data, e.hasData
	}
	e.data, e.hasData = next, true
	e.optimistic = true
	e.seq++
	e.updatedAt = s.now()
	s.mu.Unlock()
	s.notify(key)

	if !revalidate {
		return nil
	}
	return s.Revalidate(ctx, key)
}

// Set replaces the cached value; see Mutate.
func (s *Store) Set(ctx context.Context, key string, value any, revalidate bool) error {
	return s.Mutate(ctx, key, func(any) any { return value }, revalidate)
}

// Apply records a local edit derived from a response the backend already
// acknowledged. The edit is folded into the confirmed value and any fetch
// that started earlier is discarded. A pending Mutate on the same key stays
// pending: updater runs on both the shown and the confirmed value, so a later
// revert still drops only the unacknowledged write.
func (s *Store) Apply(key string, updater Updater) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.optimistic {
		e.confirmed, e.hasConfirmed = updater(e.confirmed), true
	}
	next := updater(e.data)
	e.data, e.hasData = next, true
	if !e.optimistic {
		e.confirmed, e.hasConfirmed = next, true
	}
	e.err = nil
	e.seq++
	e.updatedAt = s.now()
	s.mu.Unlock()
	s.notify(key)
}

// Focus revalidates every mounted key whose last focus revalidation is older
// than the focus throttle.
func (s *Store) Focus(ctx context.Context) error {
	now := s.now()
	s.mu.Lock()
	var keys []string
	for _, key := range s.mountedLocked() {
		e := s.entries[key]
		if s.focusThrottle > 0 && !e.lastFocus.IsZero() && now.Sub(e.lastFocus) < s.focusThrottle {
			continue
		}
		e.lastFocus = now
		keys = append(keys, key)
	}
	s.mu.Unlock()
	return s.revalidateAll(ctx, keys)
}

// Reconnect revalidates every mounted key.
func (s *Store) Reconnect(ctx context.Context) error {
	return s.revalidateAll(ctx, s.Keys())
}

// OnChange subscribes fn to key changes. The returned func unsubscribes.
func (s *Store) OnChange(fn func(key string)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) revalidateAll(ctx context.Context, keys []string) error {
	var g errgroup.Group
	for _, key := range keys {
		g.Go(func() error {
			return s.Revalidate(ctx, key)
		})
	}
	return g.Wait()
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

func (s *Store) entryLocked(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

func (s *Store) mountedLocked() []string {
	keys := make([]string, 0, len(s.entries))
	for key, e := range s.entries {
		if e.refs > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
