package resource

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/cache"
	"github.com/five82/sitedeck/internal/notify"
)

var (
	// ErrReadOnly is returned by mutations on public lists.
	ErrReadOnly = errors.New("resource is read-only")
	// ErrNoConfirmer is returned by Delete when no confirmation gate is wired.
	ErrNoConfirmer = errors.New("no confirmer configured")
	// ErrNotLoaded is returned when a singleton update has no record to target.
	ErrNotLoaded = errors.New("record not loaded")
)

// Record is any list entry with a stable identifier.
type Record interface {
	RecordID() int64
}

// Confirmer gates destructive actions. It blocks until the operator
// answers or ctx ends.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Texts resolves notification copy.
type Texts interface {
	T(key string) string
	Tf(key string, params map[string]string) string
}

// Deps are the services shared by every resource.
type Deps struct {
	Client   api.Doer
	Store    *cache.Store
	Notifier notify.Notifier
	Confirm  Confirmer
	Texts    Texts
}

// Callbacks are optional hooks invoked by a mutation.
type Callbacks[T any] struct {
	OnSuccess         func(T)
	OnValidationError func(errs map[string][]string)
}

// State is the read view of a resource.
type State[T any] struct {
	Data         T
	Err          error
	IsLoading    bool
	IsValidating bool
}

// mutation carries what every create/update/delete shares.
type mutation struct {
	deps   Deps
	entity string
}

func (m mutation) text(key string) string {
	if m.deps.Texts == nil {
		return key
	}
	return m.deps.Texts.T(key)
}

func (m mutation) textf(key string) string {
	if m.deps.Texts == nil {
		return key
	}
	return m.deps.Texts.Tf(key, map[string]string{"entity": m.deps.Texts.T("entity." + m.entity)})
}

func (m mutation) pending(op string) notify.ID {
	if m.deps.Notifier == nil {
		return ""
	}
	return m.deps.Notifier.Pending(m.textf("action." + op + "_pending"))
}

func (m mutation) succeed(id notify.ID, op string) {
	if m.deps.Notifier != nil {
		m.deps.Notifier.Success(id, capitalize(m.textf("action."+op+"_success")))
	}
}

// fail surfaces err: a 422 goes to onValidation with the response's exact
// error map and its message is shown; anything else gets generic copy.
func (m mutation) fail(id notify.ID, op string, err error, onValidation func(map[string][]string)) error {
	log.Printf("[resource] %s %s failed: %v", op, m.entity, err)
	msg := m.text("action.failed")
	if ve, ok := api.AsValidation(err); ok {
		if onValidation != nil {
			onValidation(ve.Errors)
		}
		msg = ve.Message
		if msg == "" {
			msg = m.text("action.validation_failed")
		}
	} else if errors.Is(err, api.ErrUnauthenticated) {
		msg = m.text("auth.session_expired")
	}
	if m.deps.Notifier != nil {
		m.deps.Notifier.Error(id, msg)
	}
	return err
}

func (m mutation) invalidate(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := m.deps.Store.Revalidate(ctx, key); err != nil {
			log.Printf("[resource] invalidate %s: %v", key, err)
		}
	}
}

func memberPath(base string, id int64) string {
	return strings.TrimRight(base, "/") + "/" + strconv.FormatInt(id, 10)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
