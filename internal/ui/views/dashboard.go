// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// Dashboard is the signed-in screen for one role.
type Dashboard interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Busy() bool
	Shortcuts() []components.Shortcut
}

// NewDashboard returns the dashboard for role. Requests run under ctx and
// their replies carry epoch.
func NewDashboard(ctx context.Context, epoch uint64, role model.Role, backend Backend, theme *styles.Theme) Dashboard {
	switch role {
	case model.RoleAdmin:
		return NewAdminDashboard(ctx, epoch, backend, theme)
	case model.RoleDoctor:
		return NewDoctorDashboard(ctx, epoch, backend, theme)
	default:
		return NewClientDashboard(ctx, epoch, backend, theme)
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// fetchedMsg carries a tab's data. apply stores the typed result on the
// dashboard and returns the table rows; it runs on the event loop.
type fetchedMsg struct {
	stamp
	tab   int
	apply func() [][]string
	err   error
}

// savedMsg carries the outcome of a form submission.
type savedMsg struct {
	stamp
	text  string
	after func() tea.Cmd
	err   error
}

// =============================================================================
// KEYS
// =============================================================================

// DashboardKeyMap defines the bindings shared by every dashboard.
type DashboardKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Reload  key.Binding
	Cancel  key.Binding
}

// DefaultDashboardKeyMap returns the default dashboard bindings.
func DefaultDashboardKeyMap() DashboardKeyMap {
	return DashboardKeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "previous tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// =============================================================================
// BASE
// =============================================================================

type tab struct {
	title  string
	table  *components.Table
	load   func() tea.Cmd
	err    string
	loaded bool
}

// base holds what every role dashboard shares: tabs of tables, one
// optional form, and the request bookkeeping.
type base struct {
	ctx   context.Context
	epoch uint64
	theme *styles.Theme
	title string
	keys  DashboardKeyMap

	tabs    []*tab
	active  int
	spinner components.Spinner
	pending int

	form     *Form
	formErr  string
	formNote string
	onSubmit func() tea.Cmd
	saving   bool

	width  int
	height int
}

func newBase(ctx context.Context, epoch uint64, theme *styles.Theme, title string) *base {
	sp := components.NewSpinner()
	sp.SetMessage("Loading")
	sp.SetShowTimer(false)
	return &base{
		ctx:     ctx,
		epoch:   epoch,
		theme:   theme,
		title:   title,
		keys:    DefaultDashboardKeyMap(),
		spinner: sp,
	}
}

func (b *base) addTab(title string, cols []components.Column, empty string, load func() tea.Cmd) {
	t := components.NewTable(b.theme, cols...)
	t.SetEmptyText(empty)
	b.tabs = append(b.tabs, &tab{title: title, table: t, load: load})
}

// Init loads the first tab.
func (b *base) Init() tea.Cmd {
	return b.reload(0)
}

// SetSize sets the dashboard dimensions.
func (b *base) SetSize(width, height int) {
	b.width = width
	b.height = height
	rows := height - 8
	if rows < 3 {
		rows = 3
	}
	for _, t := range b.tabs {
		t.table.SetHeight(rows)
	}
}

// Busy reports whether any request is in flight.
func (b *base) Busy() bool { return b.pending > 0 || b.saving }

// Active returns the active tab index.
func (b *base) Active() int { return b.active }

// Table returns the table of tab i.
func (b *base) Table(i int) *components.Table { return b.tabs[i].table }

// TabError returns the load error of tab i.
func (b *base) TabError(i int) string { return b.tabs[i].err }

// FormOpen reports whether a form is shown.
func (b *base) FormOpen() bool { return b.form != nil }

// FormError returns the form's inline error.
func (b *base) FormError() string { return b.formErr }

// Form returns the open form, or nil.
func (b *base) Form() *Form { return b.form }

func (b *base) reload(i int) tea.Cmd {
	t := b.tabs[i]
	t.loaded = true
	cmd := t.load()
	if cmd == nil {
		return nil
	}
	b.pending++
	return tea.Batch(b.startSpinner(), cmd)
}

func (b *base) startSpinner() tea.Cmd {
	if b.spinner.IsActive() {
		return nil
	}
	return b.spinner.Start()
}

func (b *base) done() {
	if b.pending > 0 {
		b.pending--
	}
	if !b.Busy() {
		b.spinner.Stop()
	}
}

func (b *base) switchTab(i int) tea.Cmd {
	b.active = i
	if !b.tabs[i].loaded {
		return b.reload(i)
	}
	return nil
}

// fetch runs call in a command and routes the result to tab i.
func fetch[T any](b *base, i int, call func(context.Context) (T, error), apply func(T) [][]string) tea.Cmd {
	ctx, epoch := b.ctx, b.epoch
	return func() tea.Msg {
		v, err := call(ctx)
		msg := fetchedMsg{stamp: stamp{epoch}, tab: i, err: err}
		if err == nil {
			msg.apply = func() [][]string { return apply(v) }
		}
		return msg
	}
}

// openForm shows f. submit validates the form and returns the request
// command, or sets formErr and returns nil.
func (b *base) openForm(f *Form, submit func() tea.Cmd) {
	b.form = f
	b.formErr = ""
	b.formNote = ""
	b.onSubmit = submit
}

func (b *base) closeForm() {
	b.form = nil
	b.formErr = ""
	b.formNote = ""
	b.onSubmit = nil
	b.saving = false
}

// save runs call and reports the result as a savedMsg. after runs on
// success, on the event loop.
func (b *base) save(text string, call func(context.Context) error, after func() tea.Cmd) tea.Cmd {
	b.saving = true
	b.formErr = ""
	ctx, epoch := b.ctx, b.epoch
	return tea.Batch(b.startSpinner(), func() tea.Msg {
		err := call(ctx)
		return savedMsg{stamp: stamp{epoch}, text: text, after: after, err: err}
	})
}

// update handles the shared messages and keys. handled is false when a
// role dashboard should look at the message.
func (b *base) update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		b.spinner, cmd = b.spinner.Update(msg)
		return cmd, true

	case fetchedMsg:
		b.done()
		if msg.tab < 0 || msg.tab >= len(b.tabs) {
			return nil, true
		}
		t := b.tabs[msg.tab]
		if msg.err != nil {
			t.err = ErrorText(msg.err)
			return nil, true
		}
		t.err = ""
		t.table.SetRows(msg.apply())
		return nil, true

	case savedMsg:
		b.saving = false
		if !b.Busy() {
			b.spinner.Stop()
		}
		if msg.err != nil {
			if b.form != nil {
				b.formErr = ErrorText(msg.err)
				return nil, true
			}
			return toast(components.ToastKindError, ErrorText(msg.err)), true
		}
		b.closeForm()
		cmds := []tea.Cmd{toast(components.ToastKindSuccess, msg.text)}
		if msg.after != nil {
			cmds = append(cmds, msg.after())
		}
		return tea.Batch(cmds...), true

	case tea.KeyMsg:
		if b.form != nil {
			return b.updateForm(msg), true
		}
		switch {
		case key.Matches(msg, b.keys.NextTab):
			return b.switchTab((b.active + 1) % len(b.tabs)), true
		case key.Matches(msg, b.keys.PrevTab):
			return b.switchTab((b.active - 1 + len(b.tabs)) % len(b.tabs)), true
		case key.Matches(msg, b.keys.Up):
			b.tabs[b.active].table.MoveUp()
			return nil, true
		case key.Matches(msg, b.keys.Down):
			b.tabs[b.active].table.MoveDown()
			return nil, true
		case key.Matches(msg, b.keys.Reload):
			return b.reload(b.active), true
		}
	}
	return nil, false
}

func (b *base) updateForm(msg tea.KeyMsg) tea.Cmd {
	if b.saving {
		return nil
	}
	if key.Matches(msg, b.keys.Cancel) {
		b.closeForm()
		return nil
	}
	submitted, cmd := b.form.Update(msg)
	if !submitted {
		return cmd
	}
	if missing := b.form.Missing(); len(missing) > 0 {
		b.formErr = "Please fill in: " + strings.Join(missing, ", ")
		return nil
	}
	return b.onSubmit()
}

func (b *base) shortcuts(extra ...components.Shortcut) []components.Shortcut {
	if b.form != nil {
		return []components.Shortcut{{Key: "enter", Desc: "save"}, {Key: "esc", Desc: "cancel"}}
	}
	out := []components.Shortcut{{Key: "tab", Desc: "next tab"}, {Key: "r", Desc: "reload"}}
	return append(out, extra...)
}

// View renders the header, the tab strip and the active tab or the form.
func (b *base) View() string {
	header := b.theme.Header.Render(b.theme.HeaderTitle.Render(b.title))

	titles := make([]string, len(b.tabs))
	for i, t := range b.tabs {
		if i == b.active {
			titles[i] = b.theme.TabActive.Render(t.title)
		} else {
			titles[i] = b.theme.Tab.Render(t.title)
		}
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, titles...)

	var body string
	if b.form != nil {
		parts := []string{b.form.View()}
		if b.formNote != "" {
			parts = append(parts, "", b.theme.InfoStyle.Render(b.formNote))
		}
		switch {
		case b.saving:
			parts = append(parts, "", b.spinner.View())
		case b.formErr != "":
			parts = append(parts, "", styles.RenderError(b.formErr))
		}
		body = b.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	} else {
		t := b.tabs[b.active]
		parts := []string{t.table.View()}
		if t.err != "" {
			parts = append(parts, "", styles.RenderError(t.err))
		}
		if b.pending > 0 {
			parts = append(parts, "", b.spinner.View())
		}
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, strip, "", body)
}
