package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sitedeck/internal/notify"
)

// chrome is the number of lines taken by header, tabs, status, toasts and
// command bar around the content area.
const chrome = 5

func (m Model) contentHeight() int {
	return maxInt(m.height-chrome-len(m.center.Toasts()), 3)
}

func (m Model) renderMain() string {
	parts := []string{m.renderHeader(), m.renderTabs()}
	switch {
	case m.editor != nil:
		parts = append(parts, m.fill(m.editor.render(m.theme, m.texts, m.width)))
	case m.currentView == ViewActivity:
		parts = append(parts, m.fill(m.activity.viewport.View()))
	default:
		parts = append(parts, m.fill(m.renderList()))
	}
	parts = append(parts, m.renderStatus())
	if toasts := m.renderToastLines(); toasts != "" {
		parts = append(parts, strings.TrimPrefix(toasts, "\n"))
	}
	parts = append(parts, m.renderCommandBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// fill pads or clips body to the content area.
func (m Model) fill(body string) string {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Width(m.width).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Render(body)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	b := newBar(m.theme.Surface)

	title := m.texts.T("app.title")
	if name := strings.TrimSpace(m.site.State().Data.SiteName); name != "" {
		title = name
	}
	left := b.join([]string{
		b.text(title, styles.Logo),
		b.text(m.texts.T("app.subtitle"), styles.MutedText),
	}, 2)

	conn := b.text("● "+m.texts.T("status.online"), styles.SuccessText)
	if !m.online() {
		conn = b.text("● "+m.texts.T("status.offline"), styles.DangerText)
	}
	right := b.join([]string{
		b.text(m.user.Name, styles.Text),
		b.text(m.texts.Tf("status.locale", map[string]string{"locale": strings.ToUpper(m.texts.Locale())}), styles.MutedText),
		conn,
	}, 3)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	return styles.Header.Width(m.width).Render(left + b.gap(gap) + right)
}

func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	b := newBar(m.theme.SurfaceAlt)
	parts := make([]string, 0, len(m.sections)+1)
	for i, sec := range m.sections {
		label := m.texts.T(sec.navKey())
		if i == m.active && m.currentView != ViewActivity {
			parts = append(parts, styles.Selected.Bold(true).Padding(0, 1).Render(label))
			continue
		}
		parts = append(parts, b.text(" "+label+" ", styles.MutedText))
	}
	activity := " " + m.texts.T("nav.activity") + " "
	if m.currentView == ViewActivity {
		parts = append(parts, styles.Selected.Bold(true).Render(activity))
	} else {
		parts = append(parts, b.text(activity, styles.FaintText))
	}
	return b.line(b.join(parts, 1), m.width)
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	sec := m.sections[m.active]
	st := sec.state()
	rows := sec.rows(m.texts.Locale())

	if len(rows) == 0 {
		switch {
		case st.loading:
			return styles.InfoText.Render(m.texts.T("status.loading"))
		case st.err != nil:
			return styles.DangerText.Render(m.texts.T("action.failed"))
		default:
			return styles.MutedText.Render(m.texts.T("status.empty"))
		}
	}

	width := maxInt(m.width-4, 10)
	widths := columnWidths(width, sec.weights())
	var b strings.Builder

	header := make([]string, len(widths))
	for i, h := range sec.headers() {
		if i < len(widths) && h != "" {
			header[i] = cell(m.texts.T(h), widths[i])
		} else if i < len(widths) {
			header[i] = cell("", widths[i])
		}
	}
	b.WriteString(styles.MutedText.Bold(true).Render(strings.Join(header, " ")))
	b.WriteString("\n")

	visible := maxInt(m.contentHeight()-1, 1)
	cursor := m.cursors[m.active]
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := minInt(start+visible, len(rows))

	for i := start; i < end; i++ {
		cells := make([]string, len(widths))
		for j := range widths {
			value := ""
			if j < len(rows[i].cells) {
				value = rows[i].cells[j]
			}
			cells[j] = cell(value, widths[j])
		}
		line := strings.Join(cells, " ")
		if i == cursor {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderStatus shows the fetch state of the active section. Stale data
// stays on screen with the last error next to it.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	b := newBar(m.theme.Surface)

	if m.currentView == ViewActivity {
		return b.line(" "+b.text(m.activity.status(m.texts), styles.MutedText), m.width)
	}

	st := m.sections[m.active].state()
	var parts []string
	switch {
	case st.loading:
		parts = append(parts, b.text(m.texts.T("status.loading"), styles.InfoText))
	case st.validating:
		parts = append(parts, b.text(m.texts.T("status.validating"), styles.InfoText))
	}
	if st.err != nil && !st.loading {
		parts = append(parts, b.text(m.texts.Tf("status.stale", map[string]string{"error": singleLine(st.err.Error())}), styles.WarningText))
	}
	if st.mutating {
		parts = append(parts, b.text("…", styles.AccentText))
	}
	return b.line(" "+b.join(parts, 2), m.width)
}

// renderToastLines renders one line per live notification, newest last.
func (m Model) renderToastLines() string {
	toasts := m.center.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	var b strings.Builder
	for _, t := range toasts {
		b.WriteString("\n")
		b.WriteString(" ")
		b.WriteString(styles.ToastStyle(t.Level).Render(toastIcon(t.Level)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(truncate(singleLine(t.Message), maxInt(m.width-8, 10))))
	}
	return b.String()
}

func toastIcon(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return "✓"
	case notify.LevelError:
		return "✗"
	default:
		return "…"
	}
}

func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	b := newBar(m.theme.Surface)

	var bindings []key.Binding
	switch {
	case m.editor != nil && m.editor.picking:
		bindings = []key.Binding{m.keys.Escape}
	case m.editor != nil:
		bindings = []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.ResetForm, m.keys.Escape}
		if m.editor.sec.multipart() {
			bindings = append(bindings, m.keys.PickFile, m.keys.ClearFile)
		}
	case m.currentView == ViewActivity:
		bindings = []key.Binding{m.keys.ToggleFollow, m.keys.FilterLevel, m.keys.Escape}
	default:
		sec := m.sections[m.active]
		bindings = []key.Binding{m.keys.NextTab, m.keys.Refresh}
		if sec.creatable() {
			bindings = append(bindings, m.keys.New)
		}
		if sec.editable() {
			bindings = append(bindings, m.keys.Edit)
		}
		if sec.deletable() {
			bindings = append(bindings, m.keys.Delete)
		}
		bindings = append(bindings, m.keys.ToggleLang, m.keys.Help, m.keys.Quit)
	}
	return b.line(" "+b.join(hint(b, styles, bindings...), 2), m.width)
}
