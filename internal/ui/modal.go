package ui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sitedeck/internal/resource"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// errNotRunning is returned by Confirm before the program starts.
var errNotRunning = errors.New("ui is not running")

// confirmRequestMsg asks the event loop to show a confirmation dialog and
// deliver the answer on reply.
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// Confirmer implements resource.Confirmer by routing the question through
// the bubbletea event loop. Confirm blocks the calling goroutine, never the
// loop itself.
type Confirmer struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ resource.Confirmer = (*Confirmer)(nil)

// Attach wires the confirmer to a running program's Send.
func (c *Confirmer) Attach(send func(tea.Msg)) {
	c.mu.Lock()
	c.send = send
	c.mu.Unlock()
}

// Confirm shows prompt and waits for the operator's answer.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return false, errNotRunning
	}

	reply := make(chan bool, 1)
	send(confirmRequestMsg{prompt: prompt, reply: reply})
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// confirmModal is the yes/no dialog behind Confirmer.
type confirmModal struct {
	prompt string
	yes    string
	no     string
	reply  chan<- bool
	done   bool
}

func newConfirmModal(req confirmRequestMsg, yes, no string) *confirmModal {
	return &confirmModal{prompt: req.prompt, yes: yes, no: no, reply: req.reply}
}

// answer delivers ok once; later calls are ignored.
func (c *confirmModal) answer(ok bool) {
	if c.done {
		return
	}
	c.done = true
	c.reply <- ok
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.ConfirmYes):
		c.answer(true)
		return c, nil, true
	case key.Matches(km, keys.ConfirmNo):
		c.answer(false)
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.DangerText.Render("[y] " + c.yes))
	b.WriteString("   ")
	b.WriteString(styles.MutedText.Render("[n] " + c.no))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(minInt(60, maxInt(width-4, 20)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
