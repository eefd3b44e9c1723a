package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/auth"
	"github.com/five82/sitedeck/internal/form"
)

// sessionMsg carries the result of the startup session probe or a sign-in.
type sessionMsg struct {
	user   api.User
	err    error
	errors fieldErrors
}

type signedOutMsg struct{}

// fieldErrors collects sign-in field errors off the event loop; they are
// copied into the login form once the request returns.
type fieldErrors map[string]string

var _ auth.ErrorSink = fieldErrors(nil)

func (f fieldErrors) SetError(name, msg string) { f[name] = msg }

func (f fieldErrors) ClearErrors(names ...string) {
	if len(names) == 0 {
		clear(f)
		return
	}
	for _, n := range names {
		delete(f, n)
	}
}

var loginFields = []field{requiredField("email"), requiredField("password")}

// loginView is the sign-in form.
type loginView struct {
	state   *form.State
	inputs  [2]textinput.Model
	focus   int
	pending bool
}

func newLoginView(texts textSource) *loginView {
	st := form.New(nil, nil, form.WithRequiredMessage(func(name string) string {
		return texts.Tf("form.required", map[string]string{"field": texts.T("field." + name)})
	})).Require("email", "password")

	v := &loginView{state: st}
	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "admin@example.com"
	email.Focus()
	password := textinput.New()
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	v.inputs = [2]textinput.Model{email, password}
	return v
}

func (v *loginView) update(msg tea.KeyMsg, keys keyMap) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.NextField), key.Matches(msg, keys.PrevField):
		v.inputs[v.focus].Blur()
		v.focus = 1 - v.focus
		return v.inputs[v.focus].Focus(), false
	case msg.Type == tea.KeyEnter:
		if v.focus == 0 {
			v.inputs[0].Blur()
			v.focus = 1
			return v.inputs[1].Focus(), false
		}
		return nil, true
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.state.SetField(loginFields[v.focus].name, v.inputs[v.focus].Value())
	return cmd, false
}

// submit validates locally and returns the sign-in command.
func (v *loginView) submit(ctx context.Context, svc *auth.Service) tea.Cmd {
	if v.pending || !v.state.Validate() {
		return nil
	}
	v.pending = true
	email, password := strings.TrimSpace(v.state.Value("email")), v.state.Value("password")
	return func() tea.Msg {
		errs := fieldErrors{}
		user, err := svc.SignIn(ctx, email, password, errs)
		return sessionMsg{user: user, err: err, errors: errs}
	}
}

// fail clears the password and copies the server's field errors onto the
// form.
func (v *loginView) fail(errs fieldErrors) {
	v.pending = false
	v.inputs[1].SetValue("")
	v.state.SetField("password", "")
	v.state.ClearErrors()
	for name, msg := range errs {
		v.state.SetError(name, msg)
	}
}

func (v *loginView) render(theme Theme, texts textSource) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render(texts.T("app.title")))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(texts.T("app.subtitle")))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Bold(true).Render(texts.T("auth.title")))
	b.WriteString("\n\n")
	for i, f := range loginFields {
		label := padRight(texts.T(f.label), 12)
		if i == v.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		v.inputs[i].Width = 32
		b.WriteString(styles.Input.Width(34).Render(v.inputs[i].View()))
		b.WriteString("\n")
		if msg := v.state.Error(f.name); msg != "" {
			b.WriteString(strings.Repeat(" ", 12))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}
	if v.pending {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render(texts.T("auth.signing_in")))
	}
	return b.String()
}
