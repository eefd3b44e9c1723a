package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type scriptedPinger struct {
	mu      sync.Mutex
	results []error
	paths   []string
}

func (p *scriptedPinger) Ping(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	if len(p.results) == 0 {
		return nil
	}
	err := p.results[0]
	p.results = p.results[1:]
	return err
}

type countingReconnector struct {
	mu    sync.Mutex
	calls int
}

func (r *countingReconnector) Reconnect(context.Context) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return nil
}

func TestWatcher_ReconnectsOnlyOnTransitionBackOnline(t *testing.T) {
	down := errors.New("connection refused")
	pinger := &scriptedPinger{results: []error{nil, down, down, nil, nil}}
	target := &countingReconnector{}
	w := NewWatcher(pinger, target, "/api/settings", time.Second)

	var transitions []bool
	w.OnChange(func(online bool) { transitions = append(transitions, online) })

	ctx := context.Background()
	want := []bool{true, false, false, true, true}
	for i, expect := range want {
		if got := w.Check(ctx); got != expect {
			t.Fatalf("Check #%d = %v, want %v", i, got, expect)
		}
	}

	if target.calls != 1 {
		t.Fatalf("Reconnect calls = %d, want 1", target.calls)
	}
	if len(transitions) != 2 || transitions[0] != false || transitions[1] != true {
		t.Fatalf("transitions = %v, want [false true]", transitions)
	}
	if !w.Online() {
		t.Fatalf("Online() = false, want true")
	}
	if pinger.paths[0] != "/api/settings" {
		t.Fatalf("ping path = %q, want /api/settings", pinger.paths[0])
	}
}

func TestWatcher_StaysOfflineWithoutReconnect(t *testing.T) {
	down := errors.New("down")
	target := &countingReconnector{}
	w := NewWatcher(&scriptedPinger{results: []error{down, down}}, target, "/", 2*time.Second)

	w.Check(context.Background())
	w.Check(context.Background())

	if w.Online() {
		t.Fatalf("Online() = true, want false")
	}
	if target.calls != 0 {
		t.Fatalf("Reconnect calls = %d, want 0", target.calls)
	}
}

func TestNewWatcher_DefaultInterval(t *testing.T) {
	w := NewWatcher(&scriptedPinger{}, nil, "/", 0)
	if w.interval != defaultPollInterval {
		t.Fatalf("interval = %v, want %v", w.interval, defaultPollInterval)
	}
}
