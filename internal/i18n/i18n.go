package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Locale codes. Indonesian is the site's default content locale.
const (
	ID = "id"
	EN = "en"

	DefaultLocale = ID
)

// Supported lists the locales with a message catalog.
var Supported = []string{ID, EN}

//go:embed locales/*.toml
var embedded embed.FS

// Catalog holds flattened message tables per locale. It is read-only after
// Load and safe for concurrent use.
type Catalog struct {
	messages map[string]map[string]string
}

// Load reads <locale>.toml for every supported locale from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]string, len(Supported))}
	for _, locale := range Supported {
		name := locale + ".toml"
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		var nested map[string]any
		if err := toml.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		flat := make(map[string]string)
		flatten("", nested, flat)
		c.messages[locale] = flat
		log.Printf("[i18n] loaded %d keys for locale %s", len(flat), locale)
	}
	return c, nil
}

// Embedded loads the catalogs compiled into the binary.
func Embedded() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return Load(sub)
}

// Localizer translates messages for one locale.
func (c *Catalog) Localizer(locale string) Localizer {
	return Localizer{catalog: c, locale: Normalize(locale)}
}

// Has reports whether key exists in locale's own table.
func (c *Catalog) Has(locale, key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.messages[locale][key]
	return ok
}

// Localizer is a cheap value; replace it to switch locale.
type Localizer struct {
	catalog *Catalog
	locale  string
}

// Locale returns the active locale code.
func (l Localizer) Locale() string {
	if l.locale == "" {
		return DefaultLocale
	}
	return l.locale
}

// T returns the message for key, falling back to the default locale and
// then to the key itself.
func (l Localizer) T(key string) string {
	if l.catalog != nil {
		if msg, ok := l.catalog.messages[l.Locale()][key]; ok {
			return msg
		}
		if msg, ok := l.catalog.messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Tf is T with {{name}} placeholders substituted from params.
func (l Localizer) Tf(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// Pick selects the variant of a bilingual field for l's locale.
func (l Localizer) Pick(id, en string) string {
	return Pick(l.Locale(), id, en)
}

// Pick selects the variant of a bilingual field for locale. There is no
// fallback between variants: an absent translation renders empty.
func Pick(locale, id, en string) string {
	if Normalize(locale) == EN {
		return en
	}
	return id
}

// Normalize maps a locale tag (e.g. "en-US", "ID") to a supported code,
// defaulting to DefaultLocale.
func Normalize(locale string) string {
	tag := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	for _, s := range Supported {
		if tag == s {
			return s
		}
	}
	return DefaultLocale
}

// Next cycles through Supported.
func Next(locale string) string {
	current := Normalize(locale)
	for i, s := range Supported {
		if s == current {
			return Supported[(i+1)%len(Supported)]
		}
	}
	return DefaultLocale
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
