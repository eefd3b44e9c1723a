// Package devapi is a local stand-in for the site's Laravel backend. It
// speaks the same REST contract the console consumes: resource envelopes,
// 422 validation bodies, Sanctum-style CSRF cookies, session sign-in, form
// method override and images served from /storage/.
//
// Data lives in SQLite through bun. Nothing here is meant for production;
// it exists so the console can be run and integration-tested without the
// real backend.
package devapi
