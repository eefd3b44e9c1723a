package ui

import (
	"strconv"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/form"
	"github.com/five82/sitedeck/internal/i18n"
	"github.com/five82/sitedeck/internal/resource"
)

func labelField(label string) field { return field{name: form.MainField, label: label, required: true} }

func textField(name string) field { return field{name: name, label: "field." + name} }

func requiredField(name string) field { return field{name: name, label: "field." + name, required: true} }

func mediaURL(m api.Media) string { return m.ImageURL }

// buildSections mounts every console section against deps. t translates
// catalog keys at render time so a locale switch shows up immediately.
func buildSections(deps resource.Deps, t func(key string) string) []section {
	categories := resource.Categories(deps)
	categoryName := func(id int64, locale string) string {
		if c, ok := categories.Find(id); ok {
			return i18n.Pick(locale, c.Name, c.NameEN)
		}
		return "#" + strconv.FormatInt(id, 10)
	}

	return []section{
		newsSection(deps),
		categorySection(categories),
		productSection(deps, categoryName),
		customerSection(deps),
		advantageSection(deps),
		heroSection(deps),
		settingsSection(deps, t),
		&publicSection{
			news:       resource.PublicNews(deps),
			products:   resource.PublicProducts(deps),
			advantages: resource.PublicAdvantages(deps),
			kinds:      func(entity string) string { return t("entity." + entity) },
		},
	}
}

func newsSection(deps resource.Deps) section {
	return &collectionSection[api.News]{
		nav:  "nav.news",
		coll: resource.News(deps),
		columns: []column[api.News]{
			{label: "field.title", weight: 3, render: func(n api.News, l string) string { return i18n.Pick(l, n.Title, n.TitleEN) }},
			{label: "field.excerpt", weight: 4, render: func(n api.News, l string) string { return i18n.Pick(l, n.Excerpt, n.ExcerptEN) }},
			{label: "field.published_at", weight: 2, render: func(n api.News, _ string) string { return shortDate(n.ParsedPublishedAt()) }},
		},
		form: []field{
			labelField("field.title"), textField("title_en"),
			textField("excerpt"), textField("excerpt_en"),
			textField("content"), textField("content_en"),
			textField("published_at"),
		},
		toValues: func(n api.News) map[string]string {
			return map[string]string{
				form.MainField: n.Title, "title_en": n.TitleEN,
				"excerpt": n.Excerpt, "excerpt_en": n.ExcerptEN,
				"content": n.Content, "content_en": n.ContentEN,
				"published_at": n.PublishedAt,
			}
		},
		media: func(n api.News) string { return mediaURL(n.Media) },
	}
}

func categorySection(coll *resource.Collection[api.Category]) section {
	return &collectionSection[api.Category]{
		nav:  "nav.categories",
		coll: coll,
		columns: []column[api.Category]{
			{label: "field.name", weight: 2, render: func(c api.Category, l string) string { return i18n.Pick(l, c.Name, c.NameEN) }},
			{label: "field.description", weight: 5, render: func(c api.Category, l string) string { return i18n.Pick(l, c.Description, c.DescriptionEN) }},
		},
		form: []field{labelField("field.name"), textField("name_en"), textField("description"), textField("description_en")},
		toValues: func(c api.Category) map[string]string {
			return map[string]string{
				form.MainField: c.Name, "name_en": c.NameEN,
				"description": c.Description, "description_en": c.DescriptionEN,
			}
		},
		media: func(c api.Category) string { return mediaURL(c.Media) },
	}
}

func productSection(deps resource.Deps, categoryName func(int64, string) string) section {
	return &collectionSection[api.Product]{
		nav:  "nav.products",
		coll: resource.Products(deps),
		columns: []column[api.Product]{
			{label: "field.name", weight: 3, render: func(p api.Product, l string) string { return i18n.Pick(l, p.Name, p.NameEN) }},
			{label: "field.category_id", weight: 2, render: func(p api.Product, l string) string { return categoryName(p.CategoryID, l) }},
			{label: "field.description", weight: 4, render: func(p api.Product, l string) string { return i18n.Pick(l, p.Description, p.DescriptionEN) }},
		},
		form: []field{labelField("field.name"), textField("name_en"), requiredField("category_id"), textField("description"), textField("description_en")},
		toValues: func(p api.Product) map[string]string {
			return map[string]string{
				form.MainField: p.Name, "name_en": p.NameEN,
				"category_id": strconv.FormatInt(p.CategoryID, 10),
				"description": p.Description, "description_en": p.DescriptionEN,
			}
		},
		media: func(p api.Product) string { return mediaURL(p.Media) },
	}
}

func customerSection(deps resource.Deps) section {
	return &collectionSection[api.Customer]{
		nav:  "nav.customers",
		coll: resource.Customers(deps),
		columns: []column[api.Customer]{
			{label: "field.name", weight: 2, render: func(c api.Customer, _ string) string { return c.Name }},
			{label: "field.website", weight: 3, render: func(c api.Customer, _ string) string { return c.Website }},
		},
		form: []field{labelField("field.name"), textField("website")},
		toValues: func(c api.Customer) map[string]string {
			return map[string]string{form.MainField: c.Name, "website": c.Website}
		},
		media: func(c api.Customer) string { return mediaURL(c.Media) },
	}
}

func advantageSection(deps resource.Deps) section {
	return &collectionSection[api.Advantage]{
		nav:  "nav.advantages",
		coll: resource.Advantages(deps),
		columns: []column[api.Advantage]{
			{label: "field.icon", weight: 1, render: func(a api.Advantage, _ string) string { return a.Icon }},
			{label: "field.title", weight: 2, render: func(a api.Advantage, l string) string { return i18n.Pick(l, a.Title, a.TitleEN) }},
			{label: "field.description", weight: 5, render: func(a api.Advantage, l string) string { return i18n.Pick(l, a.Description, a.DescriptionEN) }},
		},
		form: []field{labelField("field.title"), textField("title_en"), textField("description"), textField("description_en"), textField("icon")},
		toValues: func(a api.Advantage) map[string]string {
			return map[string]string{
				form.MainField: a.Title, "title_en": a.TitleEN,
				"description": a.Description, "description_en": a.DescriptionEN,
				"icon": a.Icon,
			}
		},
	}
}

// heroSection lists every page hero. Edits use the admin list; the
// collection refreshes the edited page's public hero.
func heroSection(deps resource.Deps) section {
	return &collectionSection[api.PageHero]{
		nav:  "nav.heroes",
		coll: resource.Heroes(deps),
		columns: []column[api.PageHero]{
			{label: "field.page", weight: 1, render: func(h api.PageHero, _ string) string { return h.Page }},
			{label: "field.title", weight: 3, render: func(h api.PageHero, l string) string { return i18n.Pick(l, h.Title, h.TitleEN) }},
			{label: "field.subtitle", weight: 4, render: func(h api.PageHero, l string) string { return i18n.Pick(l, h.Subtitle, h.SubtitleEN) }},
		},
		form: []field{requiredField("page"), labelField("field.title"), textField("title_en"), textField("subtitle"), textField("subtitle_en")},
		toValues: func(h api.PageHero) map[string]string {
			return map[string]string{
				"page": h.Page, form.MainField: h.Title, "title_en": h.TitleEN,
				"subtitle": h.Subtitle, "subtitle_en": h.SubtitleEN,
			}
		},
		media: func(h api.PageHero) string { return mediaURL(h.Media) },
	}
}

func settingsSection(deps resource.Deps, t func(string) string) section {
	return &singletonSection[api.Settings]{
		nav:    "nav.settings",
		single: resource.Settings(deps),
		label:  t,
		form: []field{
			requiredField("site_name"), textField("tagline"), textField("tagline_en"),
			textField("email"), textField("phone"), textField("whatsapp"),
			textField("address"), textField("address_en"), textField("maps_url"),
			textField("instagram"), textField("linkedin"),
			textField("footer_text"), textField("footer_text_en"),
		},
		toValues: func(s api.Settings) map[string]string {
			return map[string]string{
				"site_name": s.SiteName, "tagline": s.Tagline, "tagline_en": s.TaglineEN,
				"email": s.Email, "phone": s.Phone, "whatsapp": s.Whatsapp,
				"address": s.Address, "address_en": s.AddressEN, "maps_url": s.MapsURL,
				"instagram": s.Instagram, "linkedin": s.LinkedIn,
				"footer_text": s.FooterText, "footer_text_en": s.FooterTextEN,
			}
		},
	}
}
