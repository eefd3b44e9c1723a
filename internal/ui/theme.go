package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sitedeck/internal/logtail"
	"github.com/five82/sitedeck/internal/notify"
)

// Theme is a named color palette.
type Theme struct {
	Name string

	Background string
	Surface    string // header, tabs, command bar
	SurfaceAlt string // inputs and the tab strip

	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	Input    lipgloss.Style

	levels     map[notify.Level]string
	severities map[logtail.Severity]string
	background string
	muted      string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:   fg(t.Accent).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Input: fg(t.Text).Background(lipgloss.Color(t.SurfaceAlt)),

		levels: map[notify.Level]string{
			notify.LevelPending: t.Info,
			notify.LevelSuccess: t.Success,
			notify.LevelError:   t.Danger,
		},
		severities: map[logtail.Severity]string{
			logtail.SeverityInfo:  t.Muted,
			logtail.SeverityWarn:  t.Warning,
			logtail.SeverityError: t.Danger,
		},
		background: t.Background,
		muted:      t.Muted,
	}
}

// ToastStyle returns the badge style of a notification level.
func (s Styles) ToastStyle(level notify.Level) lipgloss.Style {
	return s.badge(s.levels[level])
}

// SeverityStyle returns the foreground style of an activity line.
func (s Styles) SeverityStyle(sev logtail.Severity) lipgloss.Style {
	color := s.severities[sev]
	if color == "" {
		color = s.muted
	}
	return fg(color)
}

func (s Styles) badge(color string) lipgloss.Style {
	if color == "" {
		color = s.muted
	}
	return fg(s.background).Background(lipgloss.Color(color)).Padding(0, 1)
}

var themeOrder = []string{"Tokyo Night", "Gruvbox", "Slate"}

var themes = map[string]Theme{
	// https://github.com/folke/tokyonight.nvim (night)
	"Tokyo Night": {
		Name:       "Tokyo Night",
		Background: "#16161e", Surface: "#1a1b26", SurfaceAlt: "#24283b",
		SelectionBg: "#283457", SelectionText: "#c0caf5",
		Text: "#c0caf5", Muted: "#a9b1d6", Faint: "#565f89",
		Accent: "#7aa2f7", Success: "#9ece6a", Warning: "#e0af68", Danger: "#f7768e", Info: "#7dcfff",
	},
	// https://github.com/morhetz/gruvbox (dark, hard)
	"Gruvbox": {
		Name:       "Gruvbox",
		Background: "#1d2021", Surface: "#282828", SurfaceAlt: "#3c3836",
		SelectionBg: "#504945", SelectionText: "#fbf1c7",
		Text: "#ebdbb2", Muted: "#bdae93", Faint: "#7c6f64",
		Accent: "#83a598", Success: "#b8bb26", Warning: "#fabd2f", Danger: "#fb4934", Info: "#8ec07c",
	},
	// Tailwind slate/sky
	"Slate": {
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", SurfaceAlt: "#1e293b",
		SelectionBg: "#0369a1", SelectionText: "#f8fafc",
		Text: "#e2e8f0", Muted: "#94a3b8", Faint: "#64748b",
		Accent: "#38bdf8", Success: "#4ade80", Warning: "#fbbf24", Danger: "#f87171", Info: "#22d3ee",
	},
}

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the available themes in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}
