package resource

import (
	"fmt"
	"net/url"

	"github.com/five82/sitedeck/internal/api"
)

const (
	adminBase  = "/api/admin/"
	publicBase = "/api/"

	// HeroAdminKey is the admin hero list, refreshed after a page hero edit.
	HeroAdminKey = adminBase + "hero"
	// SettingsKey is the admin settings record.
	SettingsKey = adminBase + "settings"
	// PublicSettingsKey is the unauthenticated settings record.
	PublicSettingsKey = publicBase + "settings"
)

func adminList[T Record](name, path, mainKey string, multipart bool, label func(T) string) Params[T] {
	return Params[T]{
		Name:      name,
		ListKey:   adminBase + path,
		Endpoint:  adminBase + path,
		MainKey:   mainKey,
		Multipart: multipart,
		Label:     label,
	}
}

func publicList[T Record](name, path, mainKey string, label func(T) string) Params[T] {
	return Params[T]{
		Name:     name,
		ListKey:  publicBase + path,
		MainKey:  mainKey,
		ReadOnly: true,
		Label:    label,
	}
}

// News is the admin news list.
func News(d Deps) *Collection[api.News] {
	return NewCollection(d, adminList("news", "news", "title", true, func(n api.News) string { return n.Title }))
}

// Categories is the admin product category list.
func Categories(d Deps) *Collection[api.Category] {
	p := adminList("category", "categories", "name", true, func(c api.Category) string { return c.Name })
	// Product rows show their category, so a rename must reach them.
	p.Invalidates = []string{adminBase + "products"}
	return NewCollection(d, p)
}

// Products is the admin product list.
func Products(d Deps) *Collection[api.Product] {
	return NewCollection(d, adminList("product", "products", "name", true, func(p api.Product) string { return p.Name }))
}

// Customers is the admin customer list.
func Customers(d Deps) *Collection[api.Customer] {
	return NewCollection(d, adminList("customer", "customers", "name", true, func(c api.Customer) string { return c.Name }))
}

// Advantages is the admin "about" advantages list. It carries no media and
// is submitted as JSON.
func Advantages(d Deps) *Collection[api.Advantage] {
	return NewCollection(d, adminList("advantage", "advantages", "title", false, func(a api.Advantage) string { return a.Title }))
}

// Heroes is the admin list of page heroes. A change to one hero also
// refreshes that page's public hero if it is mounted.
func Heroes(d Deps) *Collection[api.PageHero] {
	p := adminList("hero", "hero", "title", true, func(h api.PageHero) string { return h.Page })
	p.InvalidatesFor = func(h api.PageHero) []string { return []string{HeroPageKey(h.Page)} }
	return NewCollection(d, p)
}

// Settings is the site settings record, updated with a JSON PUT.
func Settings(d Deps) *Singleton[api.Settings] {
	return NewSingleton(d, SingletonParams[api.Settings]{
		Name: "settings",
		Key:  SettingsKey,
	})
}

// HeroPageKey is the cache key of the hero for page.
func HeroPageKey(page string) string {
	return publicBase + "hero?page=" + url.QueryEscape(page)
}

// HeroPage is the hero banner of one site page, addressed by page key.
func HeroPage(d Deps, page string) *Singleton[api.PageHero] {
	return NewSingleton(d, SingletonParams[api.PageHero]{
		Name:      "hero",
		Key:       HeroPageKey(page),
		Multipart: true,
		UpdatePath: func(current api.PageHero) (string, error) {
			if current.ID == 0 {
				return "", fmt.Errorf("hero for page %q: %w", page, ErrNotLoaded)
			}
			return memberPath(adminBase+"hero", current.ID), nil
		},
		Invalidates: []string{HeroAdminKey},
	})
}

// PublicNews is the published news list as visitors see it.
func PublicNews(d Deps) *Collection[api.News] {
	return NewCollection(d, publicList("news", "news", "title", func(n api.News) string { return n.Title }))
}

// PublicProducts is the public product list.
func PublicProducts(d Deps) *Collection[api.Product] {
	return NewCollection(d, publicList("product", "products", "name", func(p api.Product) string { return p.Name }))
}

// PublicAdvantages is the public advantages list.
func PublicAdvantages(d Deps) *Collection[api.Advantage] {
	return NewCollection(d, publicList("advantage", "advantages", "title", func(a api.Advantage) string { return a.Title }))
}

// PublicSettings is the unauthenticated settings record.
func PublicSettings(d Deps) *Singleton[api.Settings] {
	return NewSingleton(d, SingletonParams[api.Settings]{Name: "settings", Key: PublicSettingsKey, ReadOnly: true})
}
