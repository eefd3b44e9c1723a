package cache

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	mu    sync.Mutex
	value []int
	err   error
	calls atomic.Int32
}

func (f *fakeSource) set(value []int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value, f.err = value, err
}

func (f *fakeSource) fetch(context.Context) (any, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]int(nil), f.value...), nil
}

func appendInt(n int) Updater {
	return func(cur any) any {
		list, _ := cur.([]int)
		return append(append([]int(nil), list...), n)
	}
}

func TestStore_IsLoadingOnlyBeforeFirstResponse(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1}}
	release := s.Register("/api/news", src.fetch)
	defer release()

	if e := s.Read("/api/news"); !e.IsLoading || e.Data != nil {
		t.Fatalf("Read before fetch = %#v, want loading", e)
	}
	if err := s.Revalidate(context.Background(), "/api/news"); err != nil {
		t.Fatalf("Revalidate returned error: %v", err)
	}
	e := s.Read("/api/news")
	if e.IsLoading || !reflect.DeepEqual(e.Data, []int{1}) {
		t.Fatalf("Read after fetch = %#v, want data [1]", e)
	}
	if e.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt should be set after a fetch")
	}

	s2 := New()
	failing := &fakeSource{err: errors.New("down")}
	s2.Register("/api/news", failing.fetch)
	_ = s2.Revalidate(context.Background(), "/api/news")
	if e := s2.Read("/api/news"); e.IsLoading || e.Err == nil {
		t.Fatalf("Read after failed first fetch = %#v, want error and not loading", e)
	}
}

func TestStore_FetchErrorKeepsStaleData(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1, 2}}
	s.Register("k", src.fetch)
	ctx := context.Background()
	_ = s.Revalidate(ctx, "k")

	src.set(nil, errors.New("boom"))
	if err := s.Revalidate(ctx, "k"); err == nil {
		t.Fatalf("Revalidate returned nil error, want boom")
	}
	e := s.Read("k")
	if e.Err == nil || !reflect.DeepEqual(e.Data, []int{1, 2}) {
		t.Fatalf("Read = %#v, want stale [1 2] with error", e)
	}

	src.set([]int{3}, nil)
	_ = s.Revalidate(ctx, "k")
	if e := s.Read("k"); e.Err != nil || !reflect.DeepEqual(e.Data, []int{3}) {
		t.Fatalf("Read after recovery = %#v, want [3] no error", e)
	}
}

func TestStore_MutateRevertsOnFailedRevalidation(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1}}
	s.Register("k", src.fetch)
	ctx := context.Background()
	_ = s.Revalidate(ctx, "k")

	src.set(nil, errors.New("offline"))
	if err := s.Mutate(ctx, "k", appendInt(2), true); err == nil {
		t.Fatalf("Mutate returned nil error, want revalidation failure")
	}
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("Data = %v, want reverted [1]", got)
	}
}

func TestStore_MutateWithoutRevalidateIsImmediate(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1}}
	s.Register("k", src.fetch)
	_ = s.Revalidate(context.Background(), "k")
	before := src.calls.Load()

	if err := s.Mutate(context.Background(), "k", appendInt(9), false); err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{1, 9}) {
		t.Fatalf("Data = %v, want [1 9]", got)
	}
	if src.calls.Load() != before {
		t.Fatalf("Mutate without revalidate fetched")
	}

	if err := s.Set(context.Background(), "k", []int{5}, false); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("Data after Set = %v, want [5]", got)
	}
}

func TestStore_ApplyBecomesConfirmed(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1}}
	s.Register("k", src.fetch)
	ctx := context.Background()
	_ = s.Revalidate(ctx, "k")

	s.Apply("k", appendInt(2))
	src.set(nil, errors.New("offline"))
	_ = s.Revalidate(ctx, "k")
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("Data = %v, want acknowledged [1 2] kept", got)
	}
}

func removeInt(n int) Updater {
	return func(cur any) any {
		list, _ := cur.([]int)
		var out []int
		for _, v := range list {
			if v != n {
				out = append(out, v)
			}
		}
		return out
	}
}

func TestStore_ApplyKeepsPendingWriteRevertible(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1, 2}}
	release := s.Register("k", src.fetch)
	defer release()
	ctx := context.Background()
	_ = s.Revalidate(ctx, "k")

	if err := s.Mutate(ctx, "k", removeInt(2), false); err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	s.Apply("k", appendInt(3))
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("Data = %v, want [1 3] while the removal is pending", got)
	}

	src.set(nil, errors.New("offline"))
	if err := s.Revalidate(ctx, "k"); err == nil {
		t.Fatalf("Revalidate returned nil error, want offline")
	}
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("Data = %v, want [1 2 3] (removal reverted, append kept)", got)
	}
}

func TestStore_MutateWithRevalidateWaitsForFetch(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1}}
	s.Register("k", src.fetch)
	ctx := context.Background()
	_ = s.Revalidate(ctx, "k")
	before := src.calls.Load()

	src.set([]int{1, 4}, nil)
	if err := s.Mutate(ctx, "k", appendInt(4), true); err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if got := src.calls.Load(); got != before+1 {
		t.Fatalf("fetches = %d, want %d before Mutate returns", got, before+1)
	}
	if e := s.Read("k"); e.IsValidating || !reflect.DeepEqual(e.Data, []int{1, 4}) {
		t.Fatalf("Read = %#v, want settled [1 4]", e)
	}
}

func TestStore_StaleRevalidationDoesNotOverwriteMutation(t *testing.T) {
	s := New()
	started := make(chan struct{})
	unblock := make(chan struct{})
	s.Register("k", func(context.Context) (any, error) {
		close(started)
		<-unblock
		return []int{1}, nil
	})

	done := make(chan error, 1)
	go func() { done <- s.Revalidate(context.Background(), "k") }()
	<-started

	s.Apply("k", appendInt(7))
	close(unblock)
	if err := <-done; err != nil {
		t.Fatalf("Revalidate returned error: %v", err)
	}
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("Data = %v, want mutation [7] kept", got)
	}
}

func TestStore_ConcurrentRevalidationsAreCoalesced(t *testing.T) {
	s := New()
	var calls atomic.Int32
	release := make(chan struct{})
	entered := make(chan struct{}, 4)
	s.Register("k", func(context.Context) (any, error) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		return []int{1}, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Revalidate(context.Background(), "k")
	}()
	<-entered

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Revalidate(context.Background(), "k")
		}()
	}
	// Give the followers time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	if e := s.Read("k"); e.IsValidating {
		t.Fatalf("IsValidating still set after all calls returned")
	}
}

func TestStore_FocusRevalidatesEachMountedKeyOnce(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := New(WithFocusThrottle(5 * time.Second))
	s.now = func() time.Time { return now }

	news := &fakeSource{value: []int{1}}
	products := &fakeSource{value: []int{2}}
	gone := &fakeSource{value: []int{3}}
	s.Register("/api/admin/news", news.fetch)
	s.Register("/api/admin/products", products.fetch)
	releaseGone := s.Register("/api/admin/customers", gone.fetch)
	releaseGone()

	ctx := context.Background()
	if err := s.Focus(ctx); err != nil {
		t.Fatalf("Focus returned error: %v", err)
	}
	if news.calls.Load() != 1 || products.calls.Load() != 1 {
		t.Fatalf("calls news=%d products=%d, want 1 each", news.calls.Load(), products.calls.Load())
	}
	if gone.calls.Load() != 0 {
		t.Fatalf("unmounted key was revalidated")
	}

	now = now.Add(2 * time.Second)
	_ = s.Focus(ctx)
	if news.calls.Load() != 1 {
		t.Fatalf("focus inside throttle window revalidated again")
	}

	now = now.Add(5 * time.Second)
	_ = s.Focus(ctx)
	if news.calls.Load() != 2 || products.calls.Load() != 2 {
		t.Fatalf("focus after window: news=%d products=%d, want 2 each", news.calls.Load(), products.calls.Load())
	}
}

func TestStore_ReconnectIgnoresThrottle(t *testing.T) {
	s := New()
	src := &fakeSource{value: []int{1}}
	s.Register("k", src.fetch)
	ctx := context.Background()
	_ = s.Focus(ctx)
	_ = s.Reconnect(ctx)
	_ = s.Reconnect(ctx)
	if got := src.calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestStore_RegisterRefCountsAndFirstFetcherWins(t *testing.T) {
	s := New()
	first := &fakeSource{value: []int{1}}
	second := &fakeSource{value: []int{2}}
	r1 := s.Register("k", first.fetch)
	r2 := s.Register("k", second.fetch)

	_ = s.Revalidate(context.Background(), "k")
	if second.calls.Load() != 0 || first.calls.Load() != 1 {
		t.Fatalf("second fetcher should not replace the first")
	}

	r1()
	r1()
	if !s.Mounted("k") {
		t.Fatalf("key unmounted while a consumer remains")
	}
	r2()
	if s.Mounted("k") {
		t.Fatalf("key still mounted after last release")
	}
	if got := s.Read("k").Data; !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("cached data dropped on unmount: %v", got)
	}
}

func TestStore_OnChangeNotifiesAndUnsubscribes(t *testing.T) {
	s := New()
	var mu sync.Mutex
	var seen []string
	cancel := s.OnChange(func(key string) {
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
	})

	s.Apply("a", func(any) any { return 1 })
	cancel()
	s.Apply("b", func(any) any { return 2 })

	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(seen, []string{"a"}) {
		t.Fatalf("seen = %v, want [a]", seen)
	}
}
