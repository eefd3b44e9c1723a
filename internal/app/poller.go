package app

import (
	"context"
	"log"
	"sync"
	"time"
)

const defaultPollInterval = 10 * time.Second

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context, path string) error
}

// Reconnector revalidates every mounted key after connectivity returns.
type Reconnector interface {
	Reconnect(ctx context.Context) error
}

// Watcher polls backend reachability at a fixed interval and fires a
// reconnect on every offline to online transition.
type Watcher struct {
	pinger   Pinger
	target   Reconnector
	path     string
	interval time.Duration

	mu       sync.Mutex
	online   bool
	onChange func(online bool)
}

// NewWatcher builds a Watcher that pings path every interval. The backend is
// assumed reachable until the first failed ping.
func NewWatcher(p Pinger, target Reconnector, path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{pinger: p, target: target, path: path, interval: interval, online: true}
}

// OnChange registers fn to run after each connectivity transition.
func (w *Watcher) OnChange(fn func(online bool)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Online reports the last observed connectivity.
func (w *Watcher) Online() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online
}

// Start launches the polling goroutine. It returns immediately.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			w.Check(ctx)
		}
	}()
}

// Check pings once and handles the transition, if any. It reports whether
// the backend answered.
func (w *Watcher) Check(ctx context.Context) bool {
	err := w.pinger.Ping(ctx, w.path)
	if ctx.Err() != nil {
		return false
	}

	w.mu.Lock()
	was := w.online
	w.online = err == nil
	fn := w.onChange
	w.mu.Unlock()

	switch {
	case was && err != nil:
		log.Printf("[app] backend offline: %v", err)
	case !was && err == nil:
		log.Printf("[app] backend back online, revalidating")
		if w.target != nil {
			if rerr := w.target.Reconnect(ctx); rerr != nil {
				log.Printf("[app] reconnect revalidation: %v", rerr)
			}
		}
	default:
		return err == nil
	}
	if fn != nil {
		fn(err == nil)
	}
	return err == nil
}
