package i18n

import "sync"

// Active is a Localizer that can be switched at runtime. Long-lived
// services hold it so a locale toggle reaches their messages.
type Active struct {
	mu  sync.RWMutex
	cat *Catalog
	cur Localizer
}

// NewActive returns an Active set to locale.
func NewActive(c *Catalog, locale string) *Active {
	return &Active{cat: c, cur: c.Localizer(locale)}
}

// Set switches the active locale.
func (a *Active) Set(locale string) {
	a.mu.Lock()
	a.cur = a.cat.Localizer(locale)
	a.mu.Unlock()
}

// Current returns the active Localizer.
func (a *Active) Current() Localizer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cur
}

// Locale returns the active locale code.
func (a *Active) Locale() string { return a.Current().Locale() }

// T translates key in the active locale.
func (a *Active) T(key string) string { return a.Current().T(key) }

// Tf translates key with params in the active locale.
func (a *Active) Tf(key string, params map[string]string) string {
	return a.Current().Tf(key, params)
}

// Pick selects a bilingual variant for the active locale.
func (a *Active) Pick(id, en string) string { return a.Current().Pick(id, en) }
