// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

const (
	regUserName = iota
	regEmail
	regPassword
	regFirstName
	regLastName
	regDisplayName
	regDateOfBirth
	regGender
)

// RegisterView is the account creation form.
type RegisterView struct {
	ctx     context.Context
	backend AuthBackend
	theme   *styles.Theme

	form    *Form
	spinner components.Spinner
	busy    bool
	err     string

	back   key.Binding
	width  int
	height int
}

// NewRegisterView creates the account creation form.
func NewRegisterView(ctx context.Context, backend AuthBackend, theme *styles.Theme) *RegisterView {
	form := NewForm(theme, "Create Account",
		NewField("Username", true),
		NewField("Email", true, Placeholder("name@example.com")),
		NewField("Password", true, Secret()),
		NewField("First Name", true),
		NewField("Last Name", true),
		NewField("Display Name", true),
		NewField("Date of Birth", false, Placeholder("YYYY-MM-DD"), Limit(10)),
		NewField("Gender", false, Placeholder("male / female / other"), Limit(6)),
	)
	sp := components.NewSpinner()
	sp.SetMessage("Creating account")
	sp.SetShowTimer(false)

	return &RegisterView{
		ctx:     ctx,
		backend: backend,
		theme:   theme,
		form:    form,
		spinner: sp,
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to sign in"),
		),
	}
}

// SetSize sets the view dimensions.
func (v *RegisterView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Error returns the inline error, if any.
func (v *RegisterView) Error() string { return v.err }

// Reset clears the form.
func (v *RegisterView) Reset() tea.Cmd {
	v.busy = false
	v.err = ""
	v.spinner.Stop()
	return v.form.Reset()
}

// Finish records the registration outcome.
func (v *RegisterView) Finish(msg RegisterResultMsg) {
	v.busy = false
	v.spinner.Stop()
	if msg.Err != nil {
		v.err = ErrorText(msg.Err)
		if v.err == "" {
			v.err = "Registration failed. Please try again."
		}
		return
	}
	v.err = ""
}

// ParseGender maps free text to a Gender. Empty input means unset.
func ParseGender(s string) (*model.Gender, error) {
	var g model.Gender
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "m", "male":
		g = model.GenderMale
	case "f", "female":
		g = model.GenderFemale
	case "o", "other":
		g = model.GenderOther
	default:
		return nil, fmt.Errorf("gender must be male, female or other")
	}
	return &g, nil
}

// Request validates the form and builds the registration request.
func (v *RegisterView) Request() (model.RegisterRequest, error) {
	if missing := v.form.Missing(); len(missing) > 0 {
		return model.RegisterRequest{}, fmt.Errorf("please fill in: %s", strings.Join(missing, ", "))
	}

	req := model.RegisterRequest{
		UserName:    v.form.Value(regUserName),
		Email:       v.form.Value(regEmail),
		Password:    v.form.Value(regPassword),
		FirstName:   v.form.Value(regFirstName),
		LastName:    v.form.Value(regLastName),
		DisplayName: v.form.Value(regDisplayName),
		DateOfBirth: v.form.Value(regDateOfBirth),
	}
	if !strings.Contains(req.Email, "@") {
		return req, fmt.Errorf("please enter a valid email address")
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return req, fmt.Errorf("date of birth must be YYYY-MM-DD")
		}
		if dob.After(time.Now()) {
			return req, fmt.Errorf("date of birth cannot be in the future")
		}
	}
	g, err := ParseGender(v.form.Value(regGender))
	if err != nil {
		return req, err
	}
	req.Gender = g
	return req, nil
}

// Update handles input.
func (v *RegisterView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if v.busy {
			return nil
		}
		if key.Matches(msg, v.back) {
			return func() tea.Msg { return ShowLoginMsg{} }
		}
		submitted, cmd := v.form.Update(msg)
		if submitted {
			return v.submit()
		}
		return cmd
	}
	return nil
}

func (v *RegisterView) submit() tea.Cmd {
	req, err := v.Request()
	if err != nil {
		v.err = sentence(err)
		return nil
	}

	v.err = ""
	v.busy = true
	ctx, backend := v.ctx, v.backend
	return tea.Batch(v.spinner.Start(), func() tea.Msg {
		message, err := backend.Register(ctx, req)
		return RegisterResultMsg{Message: message, Err: err}
	})
}

// View renders the form centered in the window.
func (v *RegisterView) View() string {
	parts := []string{v.form.View(), ""}

	switch {
	case v.busy:
		parts = append(parts, v.spinner.View())
	case v.err != "":
		parts = append(parts, styles.RenderError(v.err))
	default:
		parts = append(parts, v.theme.ButtonActive.Render("Register"))
	}
	parts = append(parts, "",
		v.theme.Muted.Render("* required  enter submit  ")+
			v.theme.ShortcutKey.Render(v.back.Help().Key)+" "+v.theme.Muted.Render(v.back.Help().Desc))

	box := v.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if v.width == 0 || v.height == 0 {
		return box
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}
