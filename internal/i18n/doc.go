// Package i18n provides the console's message catalogs and locale helpers.
//
// # Catalogs
//
// Messages live in TOML files under locales/, one per supported locale,
// and are embedded into the binary. Load reads the same layout from any
// fs.FS. A Localizer looks a key up in its locale, then in DefaultLocale,
// then returns the key itself.
//
// # Bilingual content
//
// Records carry Indonesian and English variants side by side ("title" and
// "title_en"). Pick selects one for the active locale and does not fall
// back to the other variant: a missing translation renders empty.
//
// # Switching
//
// Active wraps a Localizer behind a lock so long-lived services see a
// locale toggle without being rebuilt.
package i18n
