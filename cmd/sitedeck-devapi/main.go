package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/five82/sitedeck/internal/devapi"
)

const passwordEnv = "SITEDECK_ADMIN_PASSWORD"

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	dsn := flag.String("db", "", "SQLite data source (default: in-memory)")
	storage := flag.String("storage", "", "upload directory (default: a temp dir)")
	email := flag.String("admin-email", "", "seeded administrator email")
	siteName := flag.String("site-name", "", "seeded site name")
	origins := flag.String("origins", "", "comma-separated CORS origins")
	quiet := flag.Bool("quiet", false, "disable request logging")
	flag.Parse()

	password := os.Getenv(passwordEnv)
	if password == "" {
		fmt.Fprintf(os.Stderr, "sitedeck-devapi: set $%s\n", passwordEnv)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var allowed []string
	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	s, err := devapi.New(ctx, devapi.Config{
		DSN:            *dsn,
		StorageDir:     *storage,
		AdminEmail:     *email,
		AdminPassword:  password,
		SiteName:       *siteName,
		AllowedOrigins: allowed,
		Quiet:          *quiet,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sitedeck-devapi: %v\n", err)
		return 1
	}
	defer s.Close()

	srv := &http.Server{Addr: *addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[devapi] listening on http://%s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "sitedeck-devapi: %v\n", err)
		return 1
	}
	return 0
}
