package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sitedeck/internal/api"
	"github.com/five82/sitedeck/internal/form"
	"github.com/five82/sitedeck/internal/preview"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// submitDoneMsg reports the result of an editor submit.
type submitDoneMsg struct {
	err error
}

// editor is the create/edit form of one section.
type editor struct {
	sec      section
	recordID int64
	creating bool
	state    *form.State
	inputs   []textinput.Model
	focus    int

	picking    bool
	picker     filepicker.Model
	submitting bool
	message    string
}

// textSource is what the editor needs for labels.
type textSource interface {
	T(key string) string
	Tf(key string, params map[string]string) string
}

func newEditor(sec section, recordID int64, creating bool, previews form.Previewer, texts textSource) *editor {
	fields := sec.fields()
	var (
		initial map[string]string
		media   string
	)
	if !creating {
		initial, media, _ = sec.values(recordID)
	}

	labels := make(map[string]string, len(fields))
	var required []string
	for _, f := range fields {
		labels[f.name] = f.label
		if f.required {
			required = append(required, f.name)
		}
	}
	st := form.New(previews, initial,
		form.WithExistingMedia(media),
		form.WithRequiredMessage(func(name string) string {
			return texts.Tf("form.required", map[string]string{"field": texts.T(labels[name])})
		}),
	).Require(required...)

	e := &editor{sec: sec, recordID: recordID, creating: creating, state: st}
	e.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 0
		ti.SetValue(st.Value(f.name))
		e.inputs[i] = ti
	}
	if len(e.inputs) > 0 {
		e.inputs[0].Focus()
	}
	return e
}

// slots counts focusable rows: every input plus the image slot.
func (e *editor) slots() int {
	if e.sec.multipart() {
		return len(e.inputs) + 1
	}
	return len(e.inputs)
}

func (e *editor) onImageSlot() bool {
	return e.sec.multipart() && e.focus == len(e.inputs)
}

func (e *editor) moveFocus(delta int) tea.Cmd {
	n := e.slots()
	if n == 0 {
		return nil
	}
	if e.focus < len(e.inputs) {
		e.inputs[e.focus].Blur()
	}
	e.focus = (e.focus + delta + n) % n
	if e.focus < len(e.inputs) {
		return e.inputs[e.focus].Focus()
	}
	return nil
}

// reset restores the initial values and releases any chosen image.
func (e *editor) reset() {
	e.state.Reset()
	for i, f := range e.sec.fields() {
		e.inputs[i].SetValue(e.state.Value(f.name))
	}
	e.message = ""
}

// close releases the preview held by the form.
func (e *editor) close() {
	e.state.Close()
}

func (e *editor) openPicker(width, height int) tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = imageExtensions
	fp.AutoHeight = true
	if dir, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = dir
	}
	fp, _ = fp.Update(tea.WindowSizeMsg{Width: width, Height: maxInt(height-4, 8)})
	e.picker = fp
	e.picking = true
	return e.picker.Init()
}

// updatePicker forwards msg to the file picker and attaches a selection.
func (e *editor) updatePicker(msg tea.Msg, texts textSource) tea.Cmd {
	var cmd tea.Cmd
	e.picker, cmd = e.picker.Update(msg)
	if ok, path := e.picker.DidSelectFile(msg); ok {
		e.picking = false
		e.attach(path, texts)
		return nil
	}
	if ok, _ := e.picker.DidSelectDisabledFile(msg); ok {
		e.message = texts.T("form.image_only")
	}
	return cmd
}

func (e *editor) attach(path string, texts textSource) {
	err := e.state.SelectFile(path)
	switch {
	case err == nil:
		e.message = ""
		e.state.ClearErrors("image")
	case errors.Is(err, form.ErrNotImage):
		e.message = texts.T("form.image_only")
	default:
		e.message = err.Error()
	}
}

// update handles a key while the editor is open. It reports whether the
// operator asked to submit or to leave.
func (e *editor) update(msg tea.KeyMsg, keys keyMap, width, height int) (tea.Cmd, editorAction) {
	switch {
	case key.Matches(msg, keys.Escape):
		return nil, editorCancel
	case key.Matches(msg, keys.Submit):
		return nil, editorSubmit
	case key.Matches(msg, keys.NextField):
		return e.moveFocus(1), editorNone
	case key.Matches(msg, keys.PrevField):
		return e.moveFocus(-1), editorNone
	case key.Matches(msg, keys.ResetForm):
		e.reset()
		return nil, editorNone
	case e.sec.multipart() && key.Matches(msg, keys.PickFile):
		return e.openPicker(width, height), editorNone
	case e.sec.multipart() && key.Matches(msg, keys.ClearFile):
		e.state.RemoveFile()
		return nil, editorNone
	}

	if e.onImageSlot() {
		if msg.Type == tea.KeyEnter {
			return e.openPicker(width, height), editorNone
		}
		return nil, editorNone
	}
	if msg.Type == tea.KeyEnter {
		return e.moveFocus(1), editorNone
	}
	if e.focus >= len(e.inputs) {
		return nil, editorNone
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	name := e.sec.fields()[e.focus].name
	if v := e.inputs[e.focus].Value(); v != e.state.Value(name) {
		e.state.SetField(name, v)
	}
	return cmd, editorNone
}

type editorAction int

const (
	editorNone editorAction = iota
	editorSubmit
	editorCancel
)

// submit validates locally and returns the command that sends the form.
// It returns nil when a required field is blank.
func (e *editor) submit(ctx context.Context) tea.Cmd {
	if e.submitting {
		return nil
	}
	e.message = ""
	if !e.state.Validate() {
		return nil
	}
	e.submitting = true
	body := payload(e.sec, e.state)
	sec, id, creating := e.sec, e.recordID, e.creating
	return func() tea.Msg {
		if creating {
			return submitDoneMsg{err: sec.create(ctx, body)}
		}
		return submitDoneMsg{err: sec.update(ctx, id, body)}
	}
}

// finish applies a failed submit to the form. 422 errors land on their
// fields exactly as sent; the main key maps to the label field.
func (e *editor) finish(err error, texts textSource) {
	e.submitting = false
	if err == nil {
		return
	}
	if ve, ok := api.AsValidation(err); ok {
		e.state.ApplyServerErrors(ve.Errors, e.sec.mainKey())
		return
	}
	e.message = texts.T("action.failed")
}

func (e *editor) title(texts textSource) string {
	key := "form.edit_title"
	if e.creating {
		key = "form.new_title"
	}
	return texts.Tf(key, map[string]string{"entity": texts.T("entity." + e.sec.entity())})
}

// render draws the form body.
func (e *editor) render(theme Theme, texts textSource, width int) string {
	styles := theme.Styles()
	if e.picking {
		return styles.AccentText.Bold(true).Render(texts.T("form.pick_file")) + "\n\n" + e.picker.View()
	}

	labelWidth := 18
	inputWidth := maxInt(width-labelWidth-6, 10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(e.title(texts)))
	b.WriteString("\n\n")
	for i, f := range e.sec.fields() {
		label := padRight(truncate(texts.T(f.label), labelWidth-2), labelWidth)
		if f.required {
			label = padRight(truncate(texts.T(f.label), labelWidth-3)+" *", labelWidth)
		}
		if i == e.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		e.inputs[i].Width = inputWidth
		b.WriteString(styles.Input.Width(inputWidth).Render(e.inputs[i].View()))
		b.WriteString("\n")
		if msg := e.state.Error(f.name); msg != "" {
			b.WriteString(strings.Repeat(" ", labelWidth))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	if e.sec.multipart() {
		label := padRight(texts.T("field.image"), labelWidth)
		if e.onImageSlot() {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(styles.Text.Render(e.imageLine(texts)))
		b.WriteString("\n")
		if msg := e.state.Error("image"); msg != "" {
			b.WriteString(strings.Repeat(" ", labelWidth))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	if e.message != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(e.message))
		b.WriteString("\n")
	}
	if e.submitting {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render(texts.T("status.validating")))
		b.WriteString("\n")
	}
	return b.String()
}

// imageLine describes what the image slot currently shows.
func (e *editor) imageLine(texts textSource) string {
	if f := e.state.File(); f != nil {
		return fmt.Sprintf("%s: %s (%s, %d KB) %s", texts.T("form.new_file"), f.Name, f.MIME, (len(f.Data)+1023)/1024, f.PreviewURL)
	}
	url := e.state.PreviewURL()
	if url == "" || preview.IsLocal(url) {
		return texts.T("form.no_file")
	}
	return texts.T("form.current_file") + ": " + url
}
