// Package app is the composition root of the console.
//
// Setup loads configuration, translations and preferences and builds the
// services every entry point shares: the API client, the revalidating
// cache, the notification center and the auth service. Run adds the
// interactive pieces on top: the log file, the connectivity watcher and the
// Bubble Tea program.
//
// # Connectivity
//
// Watcher pings the public settings endpoint at a fixed interval. When the
// backend comes back after being unreachable it calls cache.Store.Reconnect
// so every mounted key is refetched. There is no backoff; a failed ping just
// waits for the next tick.
//
// # Errors
//
// Setup failures (bad config, unparseable API base) are returned from Run.
// Anything after the UI starts is logged to the log file and surfaced as a
// notification by the layer that hit it.
package app
