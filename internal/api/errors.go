package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned for 401 and 419 (expired CSRF session)
// responses. Callers send the operator back to the sign-in view.
var ErrUnauthenticated = errors.New("unauthenticated")

// ValidationError is the structured body of an HTTP 422 response.
type ValidationError struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Code    string              `json:"code,omitempty"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation failed"
	}
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// First returns the first message recorded for field.
func (e *ValidationError) First(field string) string {
	if e == nil {
		return ""
	}
	msgs := e.Errors[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// StatusError reports any other non-2xx response.
type StatusError struct {
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

type networkError struct {
	err error
}

func (e *networkError) Error() string { return e.err.Error() }

func (e *networkError) Unwrap() error { return e.err }

// IsNetwork reports whether err is a transport failure rather than an
// answer from the backend.
func IsNetwork(err error) bool {
	var ne *networkError
	return errors.As(err, &ne)
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func statusErr(path string, status int, raw []byte) error {
	switch status {
	case http.StatusUnauthorized, 419:
		return fmt.Errorf("api %s: %w", path, ErrUnauthenticated)
	case http.StatusUnprocessableEntity:
		ve := &ValidationError{}
		if err := json.Unmarshal(raw, ve); err != nil {
			ve.Message = strings.TrimSpace(string(raw))
		}
		if ve.Errors == nil {
			ve.Errors = map[string][]string{}
		}
		return ve
	}
	return &StatusError{Path: path, Status: status, Message: serverMessage(raw)}
}

func serverMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &body) == nil {
		return body.Message
	}
	return ""
}
