// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// =============================================================================
// FIELDS
// =============================================================================

// Field is a labelled text input.
type Field struct {
	Label    string
	Required bool
	secret   bool
	input    textinput.Model
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// Secret masks the input.
func Secret() FieldOption {
	return func(f *Field) {
		f.secret = true
		f.input.EchoMode = textinput.EchoPassword
		f.input.EchoCharacter = '*'
	}
}

// Placeholder sets the placeholder text.
func Placeholder(s string) FieldOption {
	return func(f *Field) { f.input.Placeholder = s }
}

// Limit caps the input length.
func Limit(n int) FieldOption {
	return func(f *Field) { f.input.CharLimit = n }
}

// NewField creates a field.
func NewField(label string, required bool, opts ...FieldOption) *Field {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256
	in.Width = 32

	f := &Field{Label: label, Required: required, input: in}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// =============================================================================
// FORM
// =============================================================================

// FormKeyMap defines the form navigation keys.
type FormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
}

// DefaultFormKeyMap returns the default form bindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
	}
}

// Form is a vertical list of fields with one focused at a time.
type Form struct {
	Title  string
	fields []*Field
	focus  int
	theme  *styles.Theme
	keys   FormKeyMap

	// OnBlur runs when focus leaves field i.
	OnBlur func(i int) tea.Cmd
}

// NewForm creates a form with the first field focused.
func NewForm(theme *styles.Theme, title string, fields ...*Field) *Form {
	f := &Form{Title: title, fields: fields, theme: theme, keys: DefaultFormKeyMap()}
	if len(fields) > 0 {
		fields[0].input.Focus()
	}
	return f
}

// Len returns the number of fields.
func (f *Form) Len() int { return len(f.fields) }

// Focused returns the focused field index.
func (f *Form) Focused() int { return f.focus }

// FocusField moves focus to field i.
func (f *Form) FocusField(i int) tea.Cmd {
	if i < 0 || i >= len(f.fields) || i == f.focus {
		return nil
	}
	prev := f.focus
	f.fields[prev].input.Blur()
	f.focus = i
	cmds := []tea.Cmd{f.fields[i].input.Focus()}
	if f.OnBlur != nil {
		cmds = append(cmds, f.OnBlur(prev))
	}
	return tea.Batch(cmds...)
}

// Value returns field i. Secret fields are returned verbatim, others are
// trimmed.
func (f *Form) Value(i int) string {
	fd := f.fields[i]
	if fd.secret {
		return fd.input.Value()
	}
	return strings.TrimSpace(fd.input.Value())
}

// SetValue sets field i.
func (f *Form) SetValue(i int, v string) {
	f.fields[i].input.SetValue(v)
}

// Missing returns the labels of required fields left empty.
func (f *Form) Missing() []string {
	var out []string
	for i, fd := range f.fields {
		if fd.Required && f.Value(i) == "" {
			out = append(out, fd.Label)
		}
	}
	return out
}

// Reset clears every field and focuses the first.
func (f *Form) Reset() tea.Cmd {
	for _, fd := range f.fields {
		fd.input.Reset()
	}
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = 0
	return f.fields[0].input.Focus()
}

// Update handles navigation and typing. submitted is true when the submit
// key was pressed.
func (f *Form) Update(msg tea.Msg) (submitted bool, cmd tea.Cmd) {
	if len(f.fields) == 0 {
		return false, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, f.keys.Submit):
			return true, nil
		case key.Matches(km, f.keys.Next):
			return false, f.FocusField((f.focus + 1) % len(f.fields))
		case key.Matches(km, f.keys.Prev):
			return false, f.FocusField((f.focus - 1 + len(f.fields)) % len(f.fields))
		}
	}

	fd := f.fields[f.focus]
	fd.input, cmd = fd.input.Update(msg)
	return false, cmd
}

// View renders the form.
func (f *Form) View() string {
	var rows []string
	if f.Title != "" {
		rows = append(rows, f.theme.FormTitle.Render(f.Title))
	}
	for i, fd := range f.fields {
		label := fd.Label
		if fd.Required {
			label += " *"
		}
		style := f.theme.Label
		if i == f.focus {
			style = f.theme.LabelFocused
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, style.Render(label), fd.input.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
