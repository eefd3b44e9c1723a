package devapi

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"
)

const (
	invalidCredentialsCode    = "invalid_credentials"
	invalidCredentialsMessage = "Email atau password salah."
)

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readValid(w, r)
	if !ok {
		return
	}
	creds := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: strings.TrimSpace(in.get("email")), Password: in.get("password")}

	err := validation.ValidateStruct(&creds,
		validation.Field(&creds.Email, required("email"), is.EmailFormat.Error("The email must be a valid email address.")),
		validation.Field(&creds.Password, required("password")),
	)
	if errs, err := asFieldErrors(err); err != nil {
		writeServerError(w, err)
		return
	} else if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	var user userRow
	err = s.db.NewSelect().Model(&user).Where("lower(email) = lower(?)", creds.Email).Limit(1).Scan(r.Context())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		writeServerError(w, fmt.Errorf("look up user: %w", err))
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		log.Printf("[devapi] failed sign-in for %s", creds.Email)
		errs := fieldErrors{"email": {invalidCredentialsMessage}}
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(errs, invalidCredentialsCode))
		return
	}

	old := ""
	if sess, ok := currentSession(r); ok {
		old = sess.id
	}
	setSessionCookies(w, s.sessions.signIn(old, user.ID))
	writeData(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := currentSession(r); ok {
		s.sessions.drop(sess.id)
	}
	// a fresh anonymous session keeps the client's CSRF token usable
	setSessionCookies(w, s.sessions.create())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentSession(r)
	var user userRow
	err := s.db.NewSelect().Model(&user).Where("id = ?", sess.userID).Limit(1).Scan(r.Context())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
	case err != nil:
		writeServerError(w, fmt.Errorf("load user: %w", err))
	default:
		writeData(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}
}

// handlePublicHero serves one page's hero with ?page=, or every hero.
func (s *Server) handlePublicHero(w http.ResponseWriter, r *http.Request) {
	page := strings.TrimSpace(r.URL.Query().Get("page"))
	if page == "" {
		list(s, heroDef)(w, r)
		return
	}
	var hero heroRow
	err := s.db.NewSelect().Model(&hero).Where("page = ?", page).Limit(1).Scan(r.Context())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("No hero for page %q.", page))
	case err != nil:
		writeServerError(w, fmt.Errorf("load hero %s: %w", page, err))
	default:
		decorate(r, &hero)
		writeData(w, http.StatusOK, &hero)
	}
}

func (s *Server) loadSettings(r *http.Request) (*settingsRow, error) {
	var row settingsRow
	if err := s.db.NewSelect().Model(&row).Order("id ASC").Limit(1).Scan(r.Context()); err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &row, nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	row, err := s.loadSettings(r)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeData(w, http.StatusOK, row)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	row, err := s.loadSettings(r)
	if err != nil {
		writeServerError(w, err)
		return
	}
	in, ok := s.readValid(w, r)
	if !ok {
		return
	}
	for name, dst := range map[string]*string{
		"site_name": &row.SiteName, "tagline": &row.Tagline, "tagline_en": &row.TaglineEN,
		"email": &row.Email, "phone": &row.Phone, "whatsapp": &row.Whatsapp,
		"address": &row.Address, "address_en": &row.AddressEN, "maps_url": &row.MapsURL,
		"instagram": &row.Instagram, "linkedin": &row.LinkedIn,
		"footer_text": &row.FooterText, "footer_text_en": &row.FooterTextEN,
	} {
		in.set(dst, name)
	}

	verr := validation.ValidateStructWithContext(r.Context(), row,
		validation.Field(&row.SiteName, required("site name"), validation.Length(0, 255)),
		validation.Field(&row.Email, is.EmailFormat.Error("The email must be a valid email address.")),
		validation.Field(&row.MapsURL, is.URL.Error("The maps url must be a valid URL.")),
		validation.Field(&row.Instagram, is.URL.Error("The instagram must be a valid URL.")),
		validation.Field(&row.LinkedIn, is.URL.Error("The linkedin must be a valid URL.")),
	)
	errs, err := asFieldErrors(verr)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	row.touch(s.now())
	if _, err := s.db.NewUpdate().Model(row).WherePK().Exec(r.Context()); err != nil {
		writeServerError(w, fmt.Errorf("update settings: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Settings updated.", "data": row})
}
