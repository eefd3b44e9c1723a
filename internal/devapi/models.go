package devapi

import (
	"time"

	"github.com/uptrace/bun"
)

// Media is the image column shared by media-bearing tables. ImageURL is
// derived per request from the storage path.
type Media struct {
	Image    string `bun:"image" json:"image,omitempty"`
	ImageURL string `bun:"-" json:"image_url,omitempty"`
}

func (m *Media) mediaRef() *Media { return m }

type Stamps struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

func (s *Stamps) touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

type newsRow struct {
	bun.BaseModel `bun:"table:news,alias:n"`

	ID          int64  `bun:",pk,autoincrement" json:"id"`
	Title       string `bun:"title,notnull" json:"title"`
	TitleEN     string `bun:"title_en" json:"title_en"`
	Excerpt     string `bun:"excerpt" json:"excerpt"`
	ExcerptEN   string `bun:"excerpt_en" json:"excerpt_en"`
	Content     string `bun:"content" json:"content"`
	ContentEN   string `bun:"content_en" json:"content_en"`
	PublishedAt string `bun:"published_at" json:"published_at,omitempty"`
	Media
	Stamps
}

type categoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID            int64  `bun:",pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	NameEN        string `bun:"name_en" json:"name_en"`
	Description   string `bun:"description" json:"description"`
	DescriptionEN string `bun:"description_en" json:"description_en"`
	Media
	Stamps
}

type productRow struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID            int64  `bun:",pk,autoincrement" json:"id"`
	CategoryID    int64  `bun:"category_id,notnull" json:"category_id"`
	Name          string `bun:"name,notnull" json:"name"`
	NameEN        string `bun:"name_en" json:"name_en"`
	Description   string `bun:"description" json:"description"`
	DescriptionEN string `bun:"description_en" json:"description_en"`
	Media
	Stamps
}

type customerRow struct {
	bun.BaseModel `bun:"table:customers,alias:cu"`

	ID      int64  `bun:",pk,autoincrement" json:"id"`
	Name    string `bun:"name,notnull" json:"name"`
	Website string `bun:"website" json:"website"`
	Media
	Stamps
}

type advantageRow struct {
	bun.BaseModel `bun:"table:advantages,alias:a"`

	ID            int64  `bun:",pk,autoincrement" json:"id"`
	Title         string `bun:"title,notnull" json:"title"`
	TitleEN       string `bun:"title_en" json:"title_en"`
	Description   string `bun:"description" json:"description"`
	DescriptionEN string `bun:"description_en" json:"description_en"`
	Icon          string `bun:"icon" json:"icon"`
	Stamps
}

type heroRow struct {
	bun.BaseModel `bun:"table:page_heroes,alias:h"`

	ID         int64  `bun:",pk,autoincrement" json:"id"`
	Page       string `bun:"page,notnull,unique" json:"page"`
	Title      string `bun:"title,notnull" json:"title"`
	TitleEN    string `bun:"title_en" json:"title_en"`
	Subtitle   string `bun:"subtitle" json:"subtitle"`
	SubtitleEN string `bun:"subtitle_en" json:"subtitle_en"`
	Media
	Stamps
}

type settingsRow struct {
	bun.BaseModel `bun:"table:settings,alias:s"`

	ID           int64  `bun:",pk,autoincrement" json:"id"`
	SiteName     string `bun:"site_name,notnull" json:"site_name"`
	Tagline      string `bun:"tagline" json:"tagline"`
	TaglineEN    string `bun:"tagline_en" json:"tagline_en"`
	Email        string `bun:"email" json:"email"`
	Phone        string `bun:"phone" json:"phone"`
	Whatsapp     string `bun:"whatsapp" json:"whatsapp"`
	Address      string `bun:"address" json:"address"`
	AddressEN    string `bun:"address_en" json:"address_en"`
	MapsURL      string `bun:"maps_url" json:"maps_url"`
	Instagram    string `bun:"instagram" json:"instagram"`
	LinkedIn     string `bun:"linkedin" json:"linkedin"`
	FooterText   string `bun:"footer_text" json:"footer_text"`
	FooterTextEN string `bun:"footer_text_en" json:"footer_text_en"`
	Stamps
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64  `bun:",pk,autoincrement" json:"id"`
	Name         string `bun:"name,notnull" json:"name"`
	Email        string `bun:"email,notnull,unique" json:"email"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	Stamps
}

var models = []any{
	(*newsRow)(nil),
	(*categoryRow)(nil),
	(*productRow)(nil),
	(*customerRow)(nil),
	(*advantageRow)(nil),
	(*heroRow)(nil),
	(*settingsRow)(nil),
	(*userRow)(nil),
}
