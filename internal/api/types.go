package api

import "time"

const laravelTimestampLayout = "2006-01-02 15:04:05"

// Media is the optional image reference carried by media-bearing records.
// Image is the storage path; ImageURL is derived by the backend.
type Media struct {
	Image    string `json:"image,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Timestamps are the Eloquent created/updated markers.
type Timestamps struct {
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (t Timestamps) ParsedCreatedAt() time.Time {
	return parseTime(t.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (t Timestamps) ParsedUpdatedAt() time.Time {
	return parseTime(t.UpdatedAt)
}

// News is a news article. Title is the main field.
type News struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	TitleEN     string `json:"title_en"`
	Excerpt     string `json:"excerpt"`
	ExcerptEN   string `json:"excerpt_en"`
	Content     string `json:"content"`
	ContentEN   string `json:"content_en"`
	PublishedAt string `json:"published_at,omitempty"`
	Media
	Timestamps
}

// RecordID implements resource.Record.
func (n News) RecordID() int64 { return n.ID }

// ParsedPublishedAt returns the publication time, zero when unset.
func (n News) ParsedPublishedAt() time.Time { return parseTime(n.PublishedAt) }

// Category groups products. Name is the main field.
type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	NameEN        string `json:"name_en"`
	Description   string `json:"description"`
	DescriptionEN string `json:"description_en"`
	Media
	Timestamps
}

// RecordID implements resource.Record.
func (c Category) RecordID() int64 { return c.ID }

// Product belongs to a category. Name is the main field.
type Product struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	Name          string `json:"name"`
	NameEN        string `json:"name_en"`
	Description   string `json:"description"`
	DescriptionEN string `json:"description_en"`
	Media
	Timestamps
}

// RecordID implements resource.Record.
func (p Product) RecordID() int64 { return p.ID }

// Customer is a client logo shown on the site. Name is the main field.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
	Media
	Timestamps
}

// RecordID implements resource.Record.
func (c Customer) RecordID() int64 { return c.ID }

// Advantage is one item of the company "about" section.
type Advantage struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	TitleEN       string `json:"title_en"`
	Description   string `json:"description"`
	DescriptionEN string `json:"description_en"`
	Icon          string `json:"icon"`
	Timestamps
}

// RecordID implements resource.Record.
func (a Advantage) RecordID() int64 { return a.ID }

// PageHero is the banner shown at the top of a site page, keyed by Page.
type PageHero struct {
	ID         int64  `json:"id"`
	Page       string `json:"page"`
	Title      string `json:"title"`
	TitleEN    string `json:"title_en"`
	Subtitle   string `json:"subtitle"`
	SubtitleEN string `json:"subtitle_en"`
	Media
	Timestamps
}

// RecordID implements resource.Record.
func (h PageHero) RecordID() int64 { return h.ID }

// Settings holds the site-wide contact and branding data.
type Settings struct {
	ID           int64  `json:"id"`
	SiteName     string `json:"site_name"`
	Tagline      string `json:"tagline"`
	TaglineEN    string `json:"tagline_en"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Whatsapp     string `json:"whatsapp"`
	Address      string `json:"address"`
	AddressEN    string `json:"address_en"`
	MapsURL      string `json:"maps_url"`
	Instagram    string `json:"instagram"`
	LinkedIn     string `json:"linkedin"`
	FooterText   string `json:"footer_text"`
	FooterTextEN string `json:"footer_text_en"`
	Timestamps
}

// RecordID implements resource.Record.
func (s Settings) RecordID() int64 { return s.ID }

// User is the signed-in administrator.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(laravelTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
