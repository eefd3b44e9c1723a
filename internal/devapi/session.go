package devapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const (
	sessionCookie = "sitedeck_session"
	csrfCookie    = "XSRF-TOKEN"
	csrfHeader    = "X-XSRF-TOKEN"

	// statusCSRFMismatch is Laravel's "page expired" status.
	statusCSRFMismatch = 419
)

type session struct {
	id     string
	csrf   string
	userID int64
}

type sessionKey struct{}

// sessions is an in-memory cookie session table.
type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
}

func newSessions() *sessions {
	return &sessions{byID: make(map[string]*session)}
}

func (ss *sessions) lookup(id string) (session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.byID[id]
	if !ok {
		return session{}, false
	}
	return *s, true
}

func (ss *sessions) create() session {
	s := &session{id: uuid.NewString(), csrf: uuid.NewString()}
	ss.mu.Lock()
	ss.byID[s.id] = s
	ss.mu.Unlock()
	return *s
}

// signIn binds userID to a fresh session id and token, dropping the old
// session.
func (ss *sessions) signIn(old string, userID int64) session {
	s := &session{id: uuid.NewString(), csrf: uuid.NewString(), userID: userID}
	ss.mu.Lock()
	delete(ss.byID, old)
	ss.byID[s.id] = s
	ss.mu.Unlock()
	return *s
}

func (ss *sessions) drop(id string) {
	ss.mu.Lock()
	delete(ss.byID, id)
	ss.mu.Unlock()
}

// load attaches the request's session, if any, to the context.
func (ss *sessions) load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err == nil {
			if s, ok := ss.lookup(c.Value); ok {
				r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, s))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func currentSession(r *http.Request) (session, bool) {
	s, ok := r.Context().Value(sessionKey{}).(session)
	return s, ok
}

// verifyCSRF rejects state-changing requests whose X-XSRF-TOKEN header does
// not match the session token.
func (ss *sessions) verifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		s, ok := currentSession(r)
		token := r.Header.Get(csrfHeader)
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.csrf)) != 1 {
			writeMessage(w, statusCSRFMismatch, "CSRF token mismatch.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ss *sessions) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := currentSession(r); !ok || s.userID == 0 {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setSessionCookies(w http.ResponseWriter, s session) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: s.id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: s.csrf, Path: "/", SameSite: http.SameSiteLaxMode})
}

func (s *Server) handleCSRFCookie(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(r)
	if !ok {
		sess = s.sessions.create()
	}
	setSessionCookies(w, sess)
	w.WriteHeader(http.StatusNoContent)
}
