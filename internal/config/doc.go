// Package config loads the console configuration.
//
// # Resolution
//
//  1. built-in defaults
//  2. ~/.config/sitedeck/config.toml, or the path given with -config
//  3. SITEDECK_* variables from .env files
//  4. SITEDECK_* variables from the process environment
//
// A missing config file is not an error. Empty values keep the previous
// layer's value.
//
// # Keys
//
//	api_base = "127.0.0.1:8000"          # backend origin, scheme optional
//	locale = "id"                        # content locale: id or en
//	log_file = "~/.local/state/sitedeck/sitedeck.log"
//	focus_throttle = "5s"                # min gap between focus revalidations
//	reconnect_interval = "10s"           # connectivity probe interval
//	request_timeout = "0s"               # 0 = transport default
//	toast_ttl = "4s"
//
// Environment overrides: SITEDECK_API_BASE, SITEDECK_LOCALE,
// SITEDECK_LOG_FILE.
package config
