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

const (
	loginEmail = iota
	loginPassword
)

// LoginView is the sign-in form.
type LoginView struct {
	ctx     context.Context
	backend AuthBackend
	theme   *styles.Theme

	form    *Form
	spinner components.Spinner
	busy    bool
	err     string
	info    string

	register key.Binding
	width    int
	height   int
}

// NewLoginView creates the sign-in form.
func NewLoginView(ctx context.Context, backend AuthBackend, theme *styles.Theme) *LoginView {
	form := NewForm(theme, "Welcome Back",
		NewField("Email Address", true, Placeholder("Enter your email")),
		NewField("Password", true, Placeholder("Enter your password"), Secret()),
	)
	sp := components.NewSpinner()
	sp.SetMessage("Signing in")
	sp.SetShowTimer(false)

	return &LoginView{
		ctx:     ctx,
		backend: backend,
		theme:   theme,
		form:    form,
		spinner: sp,
		register: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^R", "create an account"),
		),
	}
}

// SetSize sets the view dimensions.
func (v *LoginView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetInfo shows an informational line above the form.
func (v *LoginView) SetInfo(s string) {
	v.info = s
	v.err = ""
}

// Busy reports whether a login request is in flight.
func (v *LoginView) Busy() bool { return v.busy }

// Error returns the inline error, if any.
func (v *LoginView) Error() string { return v.err }

// Reset clears the form, keeping the info line.
func (v *LoginView) Reset() tea.Cmd {
	v.busy = false
	v.err = ""
	v.spinner.Stop()
	return v.form.Reset()
}

// Finish records the login outcome.
func (v *LoginView) Finish(msg LoginResultMsg) {
	v.busy = false
	v.spinner.Stop()
	if msg.Err != nil {
		v.err = loginErrorText(msg.Err)
		v.form.SetValue(loginPassword, "")
		return
	}
	v.err = ""
	v.info = ""
	v.form.Reset()
}

// Update handles input.
func (v *LoginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if v.busy {
			return nil
		}
		if key.Matches(msg, v.register) {
			return func() tea.Msg { return ShowRegisterMsg{} }
		}
		submitted, cmd := v.form.Update(msg)
		if submitted {
			return v.submit()
		}
		return cmd
	}
	return nil
}

func (v *LoginView) submit() tea.Cmd {
	if missing := v.form.Missing(); len(missing) > 0 {
		v.err = "Please fill in: " + strings.Join(missing, ", ")
		return nil
	}
	email := v.form.Value(loginEmail)
	password := v.form.Value(loginPassword)
	if !strings.Contains(email, "@") {
		v.err = "Please enter a valid email address"
		return nil
	}

	v.err = ""
	v.busy = true
	ctx, backend := v.ctx, v.backend
	return tea.Batch(v.spinner.Start(), func() tea.Msg {
		resp, err := backend.Login(ctx, email, password)
		if err != nil {
			return LoginResultMsg{Email: email, Err: err}
		}
		return LoginResultMsg{Email: resp.Email, Role: model.Role(resp.Role)}
	})
}

// View renders the form centered in the window.
func (v *LoginView) View() string {
	parts := []string{v.form.View(), ""}

	switch {
	case v.busy:
		parts = append(parts, v.spinner.View())
	case v.err != "":
		parts = append(parts, styles.RenderError(v.err))
	case v.info != "":
		parts = append(parts, styles.RenderSuccess(v.info))
	default:
		parts = append(parts, v.theme.ButtonActive.Render("Sign In"))
	}

	parts = append(parts, "",
		v.theme.Muted.Render("enter sign in  tab next field  ")+
			v.theme.ShortcutKey.Render(v.register.Help().Key)+" "+v.theme.Muted.Render(v.register.Help().Desc))

	box := v.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if v.width == 0 || v.height == 0 {
		return box
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}
