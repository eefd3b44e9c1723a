package devapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/uptrace/bun"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminName     = "Administrator"
	defaultSiteName      = "sitedeck"
	defaultMaxUploadSize = 2 << 20
)

// Config configures the development backend.
type Config struct {
	// DSN is the SQLite data source; empty means a shared in-memory database.
	DSN string
	// StorageDir receives uploaded images, served under /storage/.
	StorageDir     string
	AdminEmail     string
	AdminName      string
	AdminPassword  string
	SiteName       string
	AllowedOrigins []string
	MaxUploadSize  int64
	// Quiet disables request logging.
	Quiet bool
}

func (c Config) withDefaults() Config {
	if c.AdminEmail == "" {
		c.AdminEmail = defaultAdminEmail
	}
	if c.AdminName == "" {
		c.AdminName = defaultAdminName
	}
	if c.SiteName == "" {
		c.SiteName = defaultSiteName
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = defaultMaxUploadSize
	}
	return c
}

// Server is an in-process implementation of the site's REST contract.
type Server struct {
	cfg      Config
	db       *bun.DB
	sessions *sessions
	now      func() time.Time
	handler  http.Handler
}

// New opens the database, seeds it and builds the router.
func New(ctx context.Context, cfg Config) (*Server, error) {
	cfg = cfg.withDefaults()
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin password is required")
	}
	if cfg.StorageDir == "" {
		dir, err := os.MkdirTemp("", "sitedeck-storage-")
		if err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		cfg.StorageDir = dir
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	db, err := openDB(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, db: db, sessions: newSessions(), now: time.Now}
	if err := seed(ctx, db, cfg, s.now()); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Close closes the database.
func (s *Server) Close() error { return s.db.Close() }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !s.cfg.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	// chi resolves the route method before sub-routers run
	r.Use(methodOverride(s.cfg.MaxUploadSize))
	r.Use(s.sessions.load)

	r.Get("/sanctum/csrf-cookie", s.handleCSRFCookie)
	r.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(s.cfg.StorageDir))))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessions.verifyCSRF)

		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.sessions.requireUser).Get("/user", s.handleUser)

		// public
		r.Get("/news", list(s, newsDef))
		r.Get("/categories", list(s, categoryDef))
		r.Get("/products", list(s, productDef))
		r.Get("/customers", list(s, customerDef))
		r.Get("/advantages", list(s, advantageDef))
		r.Get("/hero", s.handlePublicHero)
		r.Get("/settings", s.handleGetSettings)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.sessions.requireUser)
			mountResource(r, s, newsDef)
			mountResource(r, s, categoryDef)
			mountResource(r, s, productDef)
			mountResource(r, s, customerDef)
			mountResource(r, s, advantageDef)
			mountResource(r, s, heroDef)
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", csrfHeader},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// storagePath returns where an uploaded file lives on disk.
func (s *Server) storagePath(rel string) string {
	return filepath.Join(s.cfg.StorageDir, filepath.FromSlash(rel))
}

// mediaURL turns a stored path into an absolute URL for the request's host.
func mediaURL(r *http.Request, rel string) string {
	if rel == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/storage/" + strings.TrimPrefix(rel, "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[devapi] encode response: %v", err)
	}
}

// writeData wraps v in the resource envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeServerError(w http.ResponseWriter, err error) {
	log.Printf("[devapi] %v", err)
	writeMessage(w, http.StatusInternalServerError, "Server Error")
}
