package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/auth"
	"github.com/five82/sitedeck/internal/cache"
	"github.com/five82/sitedeck/internal/i18n"
	"github.com/five82/sitedeck/internal/notify"
	"github.com/five82/sitedeck/internal/prefs"
	"github.com/five82/sitedeck/internal/preview"
	"github.com/five82/sitedeck/internal/resource"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewList
	ViewForm
	ViewActivity
)

const tickInterval = time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Deps      resource.Deps
	Confirmer *Confirmer
	Auth      *auth.Service
	Center    *notify.Center
	Texts     *i18n.Active
	Previews  *preview.Registry
	// Online reports backend reachability; nil means always online.
	Online    func() bool
	LogFile   string
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	deps      resource.Deps
	store     *cache.Store
	auth      *auth.Service
	center    *notify.Center
	texts     *i18n.Active
	previews  *preview.Registry
	online    func() bool
	logFile   string
	prefsPath string
	keys      keyMap

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	user     api.User
	site     *resource.Singleton[api.Settings]
	sections []section
	active   int
	cursors  []int

	login    *loginView
	editor   *editor
	modal    Modal
	showHelp bool
	activity activityState
}

// New creates a new Bubble Tea model and mounts every section.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	online := opts.Online
	if online == nil {
		online = func() bool { return true }
	}

	m := Model{
		ctx:         ctx,
		deps:        opts.Deps,
		store:       opts.Deps.Store,
		auth:        opts.Auth,
		center:      opts.Center,
		texts:       opts.Texts,
		previews:    opts.Previews,
		online:      online,
		logFile:     opts.LogFile,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewLogin,
		activity:    newActivityState(),
	}
	m.login = newLoginView(m.texts)
	m.site = resource.PublicSettings(opts.Deps)
	m.sections = buildSections(opts.Deps, m.texts.T)
	m.cursors = make([]int, len(m.sections))
	return m
}

// Messages

type tickMsg time.Time

// refreshMsg asks for a redraw after cache or notification changes.
type refreshMsg struct{}

type loadDoneMsg struct{ err error }

type deleteDoneMsg struct{ err error }

type focusDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) probeSessionCmd() tea.Cmd {
	ctx, svc := m.ctx, m.auth
	return func() tea.Msg {
		user, err := svc.CurrentUser(ctx)
		return sessionMsg{user: user, err: err}
	}
}

func loadCmd(ctx context.Context, load func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{err: load(ctx)}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(tickInterval),
		m.probeSessionCmd(),
		loadCmd(m.ctx, m.site.Load),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.activity.resize(m.width-4, m.contentHeight()-1)
		m.activity.refresh(m.theme)
		if m.editor != nil && m.editor.picking {
			return m, m.editor.updatePicker(msg, m.texts)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg:
		if m.currentView == ViewLogin {
			return m, nil
		}
		ctx, store := m.ctx, m.store
		return m, func() tea.Msg { return focusDoneMsg{err: store.Focus(ctx)} }

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(tickInterval)}
		if m.currentView == ViewActivity && m.activity.follow {
			cmds = append(cmds, readActivityCmd(m.logFile))
		}
		return m, tea.Batch(cmds...)

	case refreshMsg:
		return m, nil

	case sessionMsg:
		return m.handleSession(msg)

	case signedOutMsg:
		return m.toLogin(), nil

	case confirmRequestMsg:
		if m.modal != nil {
			// one dialog at a time
			msg.reply <- false
			return m, nil
		}
		m.modal = newConfirmModal(msg, m.texts.T("confirm.yes"), m.texts.T("confirm.no"))
		return m, nil

	case submitDoneMsg:
		if m.editor == nil {
			return m, nil
		}
		if errors.Is(msg.err, api.ErrUnauthenticated) {
			return m.toLogin(), nil
		}
		m.editor.finish(msg.err, m.texts)
		if msg.err == nil {
			m.closeEditor()
		}
		return m, nil

	case loadDoneMsg, deleteDoneMsg, focusDoneMsg:
		if unauthenticated(msg) && m.currentView != ViewLogin {
			return m.toLogin(), nil
		}
		return m, nil

	case activityMsg:
		m.activity.apply(msg)
		m.activity.refresh(m.theme)
		return m, nil
	}

	if m.editor != nil && m.editor.picking {
		return m, m.editor.updatePicker(msg, m.texts)
	}
	return m, nil
}

func unauthenticated(msg tea.Msg) bool {
	var err error
	switch v := msg.(type) {
	case loadDoneMsg:
		err = v.err
	case deleteDoneMsg:
		err = v.err
	case focusDoneMsg:
		err = v.err
	}
	return errors.Is(err, api.ErrUnauthenticated)
}

func (m Model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.login.pending {
			m.login.fail(msg.errors)
		}
		if !errors.Is(msg.err, api.ErrUnauthenticated) && !m.login.pending {
			log.Printf("[ui] session probe: %v", msg.err)
		}
		return m, nil
	}
	m.user = msg.user
	m.login = newLoginView(m.texts)
	m.currentView = ViewList
	ctx, store := m.ctx, m.store
	// every section is mounted, so this loads them all at once
	return m, func() tea.Msg { return loadDoneMsg{err: store.Reconnect(ctx)} }
}

// toLogin drops any open form or dialog and shows the sign-in view.
func (m Model) toLogin() Model {
	if m.modal != nil {
		if c, ok := m.modal.(*confirmModal); ok {
			c.answer(false)
		}
		m.modal = nil
	}
	m.closeEditor()
	m.showHelp = false
	m.user = api.User{}
	m.login = newLoginView(m.texts)
	m.currentView = ViewLogin
	return m
}

func (m *Model) closeEditor() {
	if m.editor == nil {
		return
	}
	m.editor.close()
	m.editor = nil
	if m.currentView == ViewForm {
		m.currentView = ViewList
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if c, ok := m.modal.(*confirmModal); ok {
			c.answer(false)
		}
		m.closeEditor()
		return m, tea.Quit
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.currentView == ViewLogin {
		cmd, submit := m.login.update(msg, m.keys)
		if submit {
			return m, m.login.submit(m.ctx, m.auth)
		}
		return m, cmd
	}

	if m.editor != nil {
		return m.handleEditorKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.activity.refresh(m.theme)
		return m, nil

	case key.Matches(msg, m.keys.ToggleLang):
		m.texts.Set(i18n.Next(m.texts.Locale()))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.DismissLast):
		if toasts := m.center.Toasts(); len(toasts) > 0 {
			m.center.Dismiss(toasts[len(toasts)-1].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.SignOut):
		ctx, svc := m.ctx, m.auth
		return m, func() tea.Msg {
			if err := svc.SignOut(ctx); err != nil {
				log.Printf("[ui] sign out: %v", err)
			}
			return signedOutMsg{}
		}

	case key.Matches(msg, m.keys.Activity):
		if m.currentView == ViewActivity {
			m.currentView = ViewList
			return m, nil
		}
		m.currentView = ViewActivity
		return m, readActivityCmd(m.logFile)
	}

	if m.currentView == ViewActivity {
		if key.Matches(msg, m.keys.Escape) {
			m.currentView = ViewList
			return m, nil
		}
		m.activity.handleKey(msg, m.keys)
		m.activity.refresh(m.theme)
		return m, nil
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sec := m.sections[m.active]
	rows := sec.rows(m.texts.Locale())
	cursor := m.cursors[m.active]

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)
	case key.Matches(msg, m.keys.Refresh):
		return m, loadCmd(m.ctx, sec.load)
	case key.Matches(msg, m.keys.Down):
		if cursor < len(rows)-1 {
			m.cursors[m.active]++
		}
	case key.Matches(msg, m.keys.Up):
		if cursor > 0 {
			m.cursors[m.active]--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursors[m.active] = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursors[m.active] = maxInt(len(rows)-1, 0)
	case key.Matches(msg, m.keys.New):
		if sec.creatable() {
			m.editor = newEditor(sec, 0, true, m.previews, m.texts)
			m.currentView = ViewForm
		}
	case key.Matches(msg, m.keys.Edit):
		if !sec.editable() {
			return m, nil
		}
		// singleton sections ignore the id
		if id, ok := m.selectedID(rows); ok {
			m.editor = newEditor(sec, id, false, m.previews, m.texts)
			m.currentView = ViewForm
		}
	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selectedID(rows)
		if !ok || !sec.deletable() {
			return m, nil
		}
		ctx := m.ctx
		return m, func() tea.Msg { return deleteDoneMsg{err: sec.remove(ctx, id)} }
	}
	return m, nil
}

func (m Model) selectedID(rows []row) (int64, bool) {
	cursor := m.cursors[m.active]
	if cursor < 0 || cursor >= len(rows) {
		return 0, false
	}
	return rows[cursor].id, true
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	n := len(m.sections)
	m.active = (m.active + delta + n) % n
	sec := m.sections[m.active]
	if st := sec.state(); st.loading && !st.validating {
		return m, loadCmd(m.ctx, sec.load)
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e.picking {
		if key.Matches(msg, m.keys.Escape) {
			e.picking = false
			return m, nil
		}
		return m, e.updatePicker(msg, m.texts)
	}
	if e.submitting {
		return m, nil
	}
	cmd, action := e.update(msg, m.keys, m.width, m.contentHeight())
	switch action {
	case editorCancel:
		m.closeEditor()
		return m, nil
	case editorSubmit:
		return m, e.submit(m.ctx)
	}
	return m, cmd
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Locale: m.texts.Locale()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("[ui] save prefs: %v", err)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return m.texts.T("status.loading")
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.currentView == ViewLogin {
		return m.overlay(m.login.render(m.theme, m.texts)+m.renderToastLines(), 60)
	}
	return m.renderMain()
}

// Program runs the Model and bridges background goroutines into it.
type Program struct {
	program *tea.Program
	poke    chan struct{}
	cancels []func()
}

// NewProgram builds the bubbletea program. Cache and notification changes
// become redraws; the confirmer is attached to the program.
func NewProgram(opts Options, teaOpts ...tea.ProgramOption) *Program {
	p := &Program{poke: make(chan struct{}, 1)}
	p.program = tea.NewProgram(New(opts), teaOpts...)
	if opts.Confirmer != nil {
		opts.Confirmer.Attach(p.program.Send)
	}
	if opts.Deps.Store != nil {
		p.cancels = append(p.cancels, opts.Deps.Store.OnChange(func(string) { p.Invalidate() }))
	}
	if opts.Center != nil {
		p.cancels = append(p.cancels, opts.Center.OnChange(p.Invalidate))
	}
	return p
}

// Invalidate schedules a redraw. It never blocks, so it is safe to call
// from inside Update.
func (p *Program) Invalidate() {
	select {
	case p.poke <- struct{}{}:
	default:
	}
}

// Run blocks until the program exits.
func (p *Program) Run() error {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-p.poke:
				p.program.Send(refreshMsg{})
			}
		}
	}()
	defer func() {
		close(done)
		for _, cancel := range p.cancels {
			cancel()
		}
	}()
	final, err := p.program.Run()
	if m, ok := final.(Model); ok {
		for _, sec := range m.sections {
			sec.close()
		}
		m.site.Close()
	}
	return err
}
