package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/notify"
)

const (
	loginPath  = "/api/login"
	logoutPath = "/api/logout"
	userPath   = "/api/user"

	// InvalidCredentialsCode is the error code the backend sets on a failed
	// sign-in.
	InvalidCredentialsCode = "invalid_credentials"
	// InvalidCredentialsMessage is the backend's copy for a failed sign-in.
	// Older backends send it without a code, so it is matched verbatim and
	// must stay in sync with the server's translation.
	InvalidCredentialsMessage = "Email atau password salah."
)

// Session is the HTTP surface sign-in needs.
type Session interface {
	api.Doer
	EnsureCSRF(ctx context.Context) error
}

// Ensure the api client satisfies Session at compile time.
var _ Session = (*api.Client)(nil)

// Texts resolves notification copy.
type Texts interface {
	T(key string) string
	Tf(key string, params map[string]string) string
}

// ErrorSink receives field errors; *form.State implements it.
type ErrorSink interface {
	SetError(name, msg string)
	ClearErrors(names ...string)
}

// Service signs the operator in and out.
type Service struct {
	session  Session
	notifier notify.Notifier
	texts    Texts
}

// NewService returns a Service.
func NewService(session Session, notifier notify.Notifier, texts Texts) *Service {
	return &Service{session: session, notifier: notifier, texts: texts}
}

// SignIn posts the credentials. On a 422 the field errors are written to
// sink; an ambiguous credential failure marks both email and password with
// the same message so the form does not reveal which one was wrong.
func (s *Service) SignIn(ctx context.Context, email, password string, sink ErrorSink) (api.User, error) {
	var user api.User
	if sink != nil {
		sink.ClearErrors()
	}
	id := s.notifier.Pending(s.t("auth.signing_in"))

	if err := s.session.EnsureCSRF(ctx); err != nil {
		s.notifier.Error(id, s.t("action.failed"))
		return user, fmt.Errorf("prepare session: %w", err)
	}
	err := s.session.Send(ctx, http.MethodPost, loginPath, api.JSON(api.Credentials{Email: email, Password: password}), &user)
	if err != nil {
		s.notifier.Error(id, s.signInFailure(err, sink))
		return user, err
	}
	log.Printf("[auth] signed in as %s", user.Email)
	s.notifier.Success(id, s.tf("auth.signed_in", map[string]string{"name": user.Name}))
	return user, nil
}

func (s *Service) signInFailure(err error, sink ErrorSink) string {
	ve, ok := api.AsValidation(err)
	if !ok {
		log.Printf("[auth] sign-in failed: %v", err)
		return s.t("action.failed")
	}
	if sink != nil {
		for field, msgs := range ve.Errors {
			if len(msgs) > 0 {
				sink.SetError(field, msgs[0])
			}
		}
	}
	if msg, ambiguous := AmbiguousCredentials(ve); ambiguous {
		if sink != nil {
			sink.SetError("email", msg)
			sink.SetError("password", msg)
		}
		return msg
	}
	if ve.Message != "" {
		return ve.Message
	}
	return s.t("action.validation_failed")
}

// AmbiguousCredentials reports whether ve is a failed credential check and
// returns the message to show on both fields.
func AmbiguousCredentials(ve *api.ValidationError) (string, bool) {
	if ve == nil {
		return "", false
	}
	msg := ve.First("email")
	if ve.Code == InvalidCredentialsCode {
		if msg == "" {
			msg = ve.Message
		}
		return msg, true
	}
	if msg == InvalidCredentialsMessage {
		return msg, true
	}
	return "", false
}

// SignOut ends the backend session. An already expired session counts as
// signed out.
func (s *Service) SignOut(ctx context.Context) error {
	err := s.session.Send(ctx, http.MethodPost, logoutPath, nil, nil)
	if err != nil && !errors.Is(err, api.ErrUnauthenticated) {
		s.notifier.Error("", s.t("action.failed"))
		return fmt.Errorf("sign out: %w", err)
	}
	s.notifier.Success("", s.t("auth.signed_out"))
	return nil
}

// CurrentUser returns the signed-in user or api.ErrUnauthenticated.
func (s *Service) CurrentUser(ctx context.Context) (api.User, error) {
	var user api.User
	if err := s.session.Get(ctx, userPath, &user); err != nil {
		return api.User{}, err
	}
	return user, nil
}

func (s *Service) t(key string) string {
	if s.texts == nil {
		return key
	}
	return s.texts.T(key)
}

func (s *Service) tf(key string, params map[string]string) string {
	if s.texts == nil {
		return key
	}
	return s.texts.Tf(key, params)
}
