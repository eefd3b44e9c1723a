package devapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// defaultHeroPages are seeded so every site page has a banner to edit.
var defaultHeroPages = []string{"home", "about", "products", "news", "contact"}

// openDB opens the SQLite database at dsn and creates missing tables.
func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file::memory:?cache=shared"
	}
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers anyway; one connection also keeps an
	// in-memory database alive and shared.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return db, nil
}

// seed creates the admin account, the settings row and the page heroes when
// they do not exist yet.
func seed(ctx context.Context, db *bun.DB, cfg Config, now time.Time) error {
	var admin userRow
	err := db.NewSelect().Model(&admin).Where("email = ?", cfg.AdminEmail).Limit(1).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin = userRow{Name: cfg.AdminName, Email: cfg.AdminEmail, PasswordHash: string(hash)}
		admin.touch(now)
		if _, err := db.NewInsert().Model(&admin).Exec(ctx); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	case err != nil:
		return fmt.Errorf("look up admin: %w", err)
	}

	count, err := db.NewSelect().Model((*settingsRow)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if count == 0 {
		s := settingsRow{SiteName: cfg.SiteName}
		s.touch(now)
		if _, err := db.NewInsert().Model(&s).Exec(ctx); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	for _, page := range defaultHeroPages {
		exists, err := db.NewSelect().Model((*heroRow)(nil)).Where("page = ?", page).Exists(ctx)
		if err != nil {
			return fmt.Errorf("look up hero %s: %w", page, err)
		}
		if exists {
			continue
		}
		h := heroRow{Page: page, Title: cfg.SiteName}
		h.touch(now)
		if _, err := db.NewInsert().Model(&h).Exec(ctx); err != nil {
			return fmt.Errorf("seed hero %s: %w", page, err)
		}
	}
	return nil
}
