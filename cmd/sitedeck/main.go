package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/sitedeck/internal/app"
)

const passwordEnv = "SITEDECK_PASSWORD"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(args) > 0 && args[0] == "import-news" {
		return importNews(ctx, args[1:])
	}

	fs := flag.NewFlagSet("sitedeck", flag.ExitOnError)
	configPath := fs.String("config", "", "override config path (optional)")
	locale := fs.String("locale", "", "interface language: id or en (optional)")
	_ = fs.Parse(args)

	if err := app.Run(ctx, app.Options{ConfigPath: *configPath, Locale: *locale}); err != nil {
		fmt.Fprintf(os.Stderr, "sitedeck: %v\n", err)
		return 1
	}
	return 0
}

func importNews(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("sitedeck import-news", flag.ExitOnError)
	configPath := fs.String("config", "", "override config path (optional)")
	feedURL := fs.String("feed", "", "RSS or Atom feed URL")
	limit := fs.Int("limit", 0, "maximum records to create (0 for all)")
	email := fs.String("email", "", "administrator email; the password is read from $"+passwordEnv)
	_ = fs.Parse(args)

	res, err := app.ImportNews(ctx, app.Options{ConfigPath: *configPath}, app.ImportOptions{
		FeedURL:  *feedURL,
		Limit:    *limit,
		Email:    *email,
		Password: os.Getenv(passwordEnv),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sitedeck import-news: %v\n", err)
		return 1
	}
	fmt.Printf("created %d, skipped %d\n", res.Created, res.Skipped)
	return 0
}
