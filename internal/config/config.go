package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console's settings.
type Config struct {
	APIBase           string
	Locale            string
	LogFile           string
	FocusThrottle     time.Duration
	ReconnectInterval time.Duration
	// RequestTimeout bounds each HTTP request. Zero leaves it to the
	// transport.
	RequestTimeout time.Duration
	ToastTTL       time.Duration
}

const (
	defaultConfigPath        = "~/.config/sitedeck/config.toml"
	defaultAPIBase           = "127.0.0.1:8000"
	defaultLocale            = "id"
	defaultLogFile           = "~/.local/state/sitedeck/sitedeck.log"
	defaultFocusThrottle     = 5 * time.Second
	defaultReconnectInterval = 10 * time.Second
	defaultToastTTL          = 4 * time.Second

	envAPIBase = "SITEDECK_API_BASE"
	envLocale  = "SITEDECK_LOCALE"
	envLogFile = "SITEDECK_LOG_FILE"
)

// DefaultEnvFile is read for overrides when present.
const DefaultEnvFile = ".env"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:           defaultAPIBase,
		Locale:            defaultLocale,
		LogFile:           mustExpand(defaultLogFile),
		FocusThrottle:     defaultFocusThrottle,
		ReconnectInterval: defaultReconnectInterval,
		ToastTTL:          defaultToastTTL,
	}
}

// Load parses the TOML config at path (or the default location), falling
// back to defaults when the file is missing, and then applies environment
// overrides from the process and envFiles. Process variables win over
// values read from envFiles.
func Load(path string, envFiles ...string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, envFiles); err != nil {
		return Config{}, err
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string `toml:"api_base"`
		Locale            string `toml:"locale"`
		LogFile           string `toml:"log_file"`
		FocusThrottle     string `toml:"focus_throttle"`
		ReconnectInterval string `toml:"reconnect_interval"`
		RequestTimeout    string `toml:"request_timeout"`
		ToastTTL          string `toml:"toast_ttl"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.APIBase, raw.APIBase)
	setString(&cfg.Locale, raw.Locale)
	setString(&cfg.LogFile, raw.LogFile)

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"focus_throttle", raw.FocusThrottle, &cfg.FocusThrottle},
		{"reconnect_interval", raw.ReconnectInterval, &cfg.ReconnectInterval},
		{"request_timeout", raw.RequestTimeout, &cfg.RequestTimeout},
		{"toast_ttl", raw.ToastTTL, &cfg.ToastTTL},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.key, err)
		}
		if v < 0 {
			return fmt.Errorf("parse %s: negative duration %s", d.key, d.raw)
		}
		*d.dst = v
	}
	return nil
}

func applyEnv(cfg *Config, envFiles []string) error {
	fileVars := map[string]string{}
	for _, name := range envFiles {
		vars, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("read env file %s: %w", name, err)
		}
		for k, v := range vars {
			if _, seen := fileVars[k]; !seen {
				fileVars[k] = v
			}
		}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}
	setString(&cfg.APIBase, lookup(envAPIBase))
	setString(&cfg.Locale, lookup(envLocale))
	setString(&cfg.LogFile, lookup(envLogFile))
	return nil
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
