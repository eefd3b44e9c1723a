package notify

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a resolved toast stays visible.
const DefaultTTL = 4 * time.Second

// ID identifies a toast.
type ID string

// Level is the toast state.
type Level int

const (
	LevelPending Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelPending:
		return "pending"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Toast is one transient notification.
type Toast struct {
	ID         ID
	Level      Level
	Message    string
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// Notifier is the progress/success/error surface used by mutations.
type Notifier interface {
	Pending(msg string) ID
	Success(id ID, msg string)
	Error(id ID, msg string)
}

// Ensure Center implements Notifier at compile time.
var _ Notifier = (*Center)(nil)

// Center keeps toasts in memory. Pending toasts stay until resolved;
// resolved toasts expire after the TTL.
type Center struct {
	mu        sync.Mutex
	toasts    []Toast
	ttl       time.Duration
	now       func() time.Time
	listeners map[int]func()
	nextID    int
}

// NewCenter returns a Center. A non-positive ttl uses DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now, listeners: make(map[int]func())}
}

// Pending opens a toast and returns its ID.
func (c *Center) Pending(msg string) ID {
	id := ID(uuid.NewString())
	c.mu.Lock()
	c.toasts = append(c.toasts, Toast{ID: id, Level: LevelPending, Message: msg, CreatedAt: c.now()})
	c.mu.Unlock()
	log.Printf("[notify] pending: %s", msg)
	c.changed()
	return id
}

// Success resolves id. An unknown or empty id opens a new resolved toast.
func (c *Center) Success(id ID, msg string) {
	c.resolve(id, LevelSuccess, msg)
	log.Printf("[notify] success: %s", msg)
	c.changed()
}

// Error resolves id as failed. An unknown or empty id opens a new toast.
func (c *Center) Error(id ID, msg string) {
	c.resolve(id, LevelError, msg)
	log.Printf("[notify] error: %s", msg)
	c.changed()
}

// Dismiss removes a toast regardless of state.
func (c *Center) Dismiss(id ID) {
	c.mu.Lock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.changed()
}

// Toasts returns the visible toasts, oldest first, pruning expired ones.
func (c *Center) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.Level != LevelPending && now.Sub(t.ResolvedAt) >= c.ttl {
			continue
		}
		kept = append(kept, t)
	}
	c.toasts = kept
	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// OnChange subscribes fn to toast changes. The returned func unsubscribes.
func (c *Center) OnChange(fn func()) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Center) resolve(id ID, level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for i := range c.toasts {
		if id != "" && c.toasts[i].ID == id {
			c.toasts[i].Level = level
			c.toasts[i].Message = msg
			c.toasts[i].ResolvedAt = now
			return
		}
	}
	if id == "" {
		id = ID(uuid.NewString())
	}
	c.toasts = append(c.toasts, Toast{ID: id, Level: level, Message: msg, CreatedAt: now, ResolvedAt: now})
}

func (c *Center) changed() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
