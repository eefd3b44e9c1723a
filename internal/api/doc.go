// Package api provides the HTTP client for the marketing site's REST backend.
//
// # Overview
//
// The console reads public and admin resources, performs multipart and JSON
// mutations, and keeps a cookie session with the backend. Every higher layer
// (cache fetchers, resource mutations, sign-in) goes through the Doer
// interface implemented by *Client.
//
// # Endpoints
//
//   - GET /api/{resource}: public list
//   - GET /api/admin/{resource}: authenticated list
//   - POST /api/admin/{resource}: create (multipart or JSON)
//   - POST /api/admin/{resource}/{id} with _method=PUT: multipart update
//   - DELETE /api/admin/{resource}/{id}: delete
//   - GET /api/hero?page={key}: hero banner for a page
//
// Payloads wrapped in a {"data": ...} envelope are unwrapped before decoding.
//
// # Errors
//
//   - *ValidationError: HTTP 422 with the body's message and field map
//   - ErrUnauthenticated: HTTP 401 or 419
//   - *StatusError: any other non-2xx status
//   - transport failures: wrapped as "execute request: ..."; see IsNetwork
//
// No request is retried here. Callers decide what to surface.
//
// # Session
//
// The client owns an in-memory cookie jar. EnsureCSRF fetches the XSRF-TOKEN
// cookie and every mutating request echoes it back as X-XSRF-TOKEN.
package api
