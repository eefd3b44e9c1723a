package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sitedeck/internal/logtail"
)

const activityLimit = 500

// activityMsg carries a fresh read of the activity log.
type activityMsg struct {
	lines []string
	err   error
}

// activityState holds the activity pane.
type activityState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	follow   bool
	min      logtail.Severity
	err      error
}

func newActivityState() activityState {
	return activityState{viewport: viewport.New(0, 0), follow: true}
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, activityLimit)
		return activityMsg{lines: lines, err: err}
	}
}

func (a *activityState) apply(msg activityMsg) {
	a.err = msg.err
	if msg.err == nil {
		a.entries = logtail.ParseAll(msg.lines)
	}
}

func (a *activityState) resize(width, height int) {
	a.viewport.Width = maxInt(width, 10)
	a.viewport.Height = maxInt(height, 3)
}

// refresh re-renders the visible entries into the viewport.
func (a *activityState) refresh(theme Theme) {
	styles := theme.Styles()
	var b strings.Builder
	for i, e := range logtail.Filter(a.entries, "", a.min) {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.Timestamp != "" {
			b.WriteString(styles.FaintText.Render(e.Timestamp))
			b.WriteString(" ")
		}
		if e.Component != "" {
			b.WriteString(styles.AccentText.Render("[" + e.Component + "]"))
			b.WriteString(" ")
		}
		b.WriteString(styles.SeverityStyle(e.Severity).Render(e.Message))
	}
	a.viewport.SetContent(b.String())
	if a.follow {
		a.viewport.GotoBottom()
	}
}

func (a *activityState) handleKey(msg tea.KeyMsg, keys keyMap) {
	switch {
	case key.Matches(msg, keys.ToggleFollow):
		a.follow = !a.follow
		if a.follow {
			a.viewport.GotoBottom()
		}
	case key.Matches(msg, keys.FilterLevel):
		a.min = (a.min + 1) % (logtail.SeverityError + 1)
	case key.Matches(msg, keys.Top):
		a.viewport.GotoTop()
		a.follow = false
	case key.Matches(msg, keys.Bottom):
		a.viewport.GotoBottom()
		a.follow = true
	case key.Matches(msg, keys.Down):
		a.viewport.ScrollDown(1)
		a.follow = false
	case key.Matches(msg, keys.Up):
		a.viewport.ScrollUp(1)
		a.follow = false
	case key.Matches(msg, keys.HalfPageDown):
		a.viewport.HalfPageDown()
		a.follow = false
	case key.Matches(msg, keys.HalfPageUp):
		a.viewport.HalfPageUp()
		a.follow = false
	}
}

func (a *activityState) status(texts textSource) string {
	follow := texts.T("activity.follow_off")
	if a.follow {
		follow = texts.T("activity.follow_on")
	}
	parts := []string{
		texts.Tf("activity.lines", map[string]string{"count": strconv.Itoa(len(a.entries))}),
		follow,
		texts.Tf("activity.minimum", map[string]string{"level": a.min.String()}),
	}
	if a.err != nil {
		parts = append(parts, a.err.Error())
	}
	return strings.Join(parts, "  ")
}
