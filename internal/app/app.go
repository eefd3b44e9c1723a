package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/auth"
	"github.com/five82/sitedeck/internal/cache"
	"github.com/five82/sitedeck/internal/config"
	"github.com/five82/sitedeck/internal/i18n"
	"github.com/five82/sitedeck/internal/notify"
	"github.com/five82/sitedeck/internal/prefs"
	"github.com/five82/sitedeck/internal/preview"
	"github.com/five82/sitedeck/internal/resource"
	"github.com/five82/sitedeck/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/sitedeck/prefs.toml
	// Locale overrides both config and saved preference when set.
	Locale   string
	EnvFiles []string
}

// Services are the long-lived collaborators shared by the console and the
// command-line tools.
type Services struct {
	Config   config.Config
	Client   *api.Client
	Store    *cache.Store
	Center   *notify.Center
	Texts    *i18n.Active
	Previews *preview.Registry
	Deps     resource.Deps
	Auth     *auth.Service
}

// Close releases every outstanding preview.
func (s *Services) Close() {
	s.Previews.Close()
}

// Setup loads configuration and builds the shared services. confirm may be
// nil for non-interactive callers; deletes then fail with
// resource.ErrNoConfirmer.
func Setup(opts Options, confirm resource.Confirmer) (*Services, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{config.DefaultEnvFile}
	}
	cfg, err := config.Load(opts.ConfigPath, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	locale := cfg.Locale
	if p := prefs.Load(opts.PrefsPath); p.Locale != "" {
		locale = p.Locale
	}
	if opts.Locale != "" {
		locale = opts.Locale
	}
	catalog, err := i18n.Embedded()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	texts := i18n.NewActive(catalog, locale)

	client, err := api.NewClient(cfg.APIBase, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	store := cache.New(cache.WithFocusThrottle(cfg.FocusThrottle))
	center := notify.NewCenter(cfg.ToastTTL)
	deps := resource.Deps{
		Client:   client,
		Store:    store,
		Notifier: center,
		Confirm:  confirm,
		Texts:    texts,
	}
	return &Services{
		Config:   cfg,
		Client:   client,
		Store:    store,
		Center:   center,
		Texts:    texts,
		Previews: preview.NewRegistry(),
		Deps:     deps,
		Auth:     auth.NewService(client, center, texts),
	}, nil
}

// Run boots the console until the operator quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	confirmer := &ui.Confirmer{}
	svc, err := Setup(opts, confirmer)
	if err != nil {
		return err
	}
	defer svc.Close()

	logFile, err := openLog(svc.Config.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Printf("[app] starting against %s", svc.Client.BaseURL())

	watcher := NewWatcher(svc.Client, svc.Store, resource.PublicSettingsKey, svc.Config.ReconnectInterval)
	userPrefs := prefs.Load(opts.PrefsPath)

	prog := ui.NewProgram(ui.Options{
		Context:   ctx,
		Deps:      svc.Deps,
		Confirmer: confirmer,
		Auth:      svc.Auth,
		Center:    svc.Center,
		Texts:     svc.Texts,
		Previews:  svc.Previews,
		Online:    watcher.Online,
		LogFile:   svc.Config.LogFile,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))

	watcher.OnChange(func(bool) { prog.Invalidate() })
	watcher.Start(ctx)

	return prog.Run()
}

// openLog sends the standard logger to path; the terminal belongs to the UI.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
