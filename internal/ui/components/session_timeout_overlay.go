// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// =============================================================================
// SESSION TIMEOUT OVERLAY
// =============================================================================

// SessionTimeoutOverlay displays a warning when the session is about to
// expire and, after a forced logout, an alert explaining why.
type SessionTimeoutOverlay struct {
	// State
	visible       bool
	timeRemaining time.Duration
	expired       bool
	reason        string

	keys OverlayKeyMap

	// Dimensions
	width  int
	height int
}

// OverlayKeyMap holds the overlay's actions.
type OverlayKeyMap struct {
	Extend key.Binding
	Logout key.Binding
}

// DefaultOverlayKeyMap returns the default overlay bindings.
func DefaultOverlayKeyMap() OverlayKeyMap {
	return OverlayKeyMap{
		Extend: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/Enter", "extend session"),
		),
		Logout: key.NewBinding(
			key.WithKeys("l", "ctrl+l"),
			key.WithHelp("l", "log out now"),
		),
	}
}

// NewSessionTimeoutOverlay creates a new session timeout overlay.
func NewSessionTimeoutOverlay() SessionTimeoutOverlay {
	return SessionTimeoutOverlay{keys: DefaultOverlayKeyMap()}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetSize sets the overlay dimensions.
func (o *SessionTimeoutOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// Show displays the warning with the given time remaining.
func (o *SessionTimeoutOverlay) Show(remaining time.Duration) {
	o.visible = true
	o.expired = false
	o.timeRemaining = remaining
}

// ShowExpired displays the expired alert. reason is shown under the title.
func (o *SessionTimeoutOverlay) ShowExpired(reason string) {
	o.visible = true
	o.expired = true
	o.timeRemaining = 0
	o.reason = reason
}

// Hide hides the overlay.
func (o *SessionTimeoutOverlay) Hide() {
	o.visible = false
	o.expired = false
	o.reason = ""
}

// UpdateTime updates the countdown.
func (o *SessionTimeoutOverlay) UpdateTime(remaining time.Duration) {
	o.timeRemaining = remaining
}

// IsVisible returns whether the overlay is currently visible.
func (o *SessionTimeoutOverlay) IsVisible() bool {
	return o.visible
}

// IsExpired returns whether the expired alert is showing.
func (o *SessionTimeoutOverlay) IsExpired() bool {
	return o.visible && o.expired
}

// TimeRemaining returns the current time remaining.
func (o *SessionTimeoutOverlay) TimeRemaining() time.Duration {
	return o.timeRemaining
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// SessionExtendRequestMsg asks the app to extend the session.
type SessionExtendRequestMsg struct{}

// SessionLogoutRequestMsg asks the app to log out immediately.
type SessionLogoutRequestMsg struct{}

// SessionNoticeDismissedMsg reports that the expired alert was acknowledged.
type SessionNoticeDismissedMsg struct{}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Update handles messages for the overlay.
func (o SessionTimeoutOverlay) Update(msg tea.Msg) (SessionTimeoutOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height

	case tea.KeyMsg:
		if !o.visible {
			return o, nil
		}
		if o.expired {
			o.Hide()
			return o, msgCmd(SessionNoticeDismissedMsg{})
		}
		switch {
		case key.Matches(msg, o.keys.Extend):
			o.Hide()
			return o, msgCmd(SessionExtendRequestMsg{})
		case key.Matches(msg, o.keys.Logout):
			o.Hide()
			return o, msgCmd(SessionLogoutRequestMsg{})
		}
	}

	return o, nil
}

// View renders the session timeout overlay.
func (o SessionTimeoutOverlay) View() string {
	if !o.visible {
		return ""
	}
	if o.expired {
		return o.viewExpired()
	}
	return o.viewWarning()
}

// =============================================================================
// RENDER METHODS
// =============================================================================

func (o SessionTimeoutOverlay) dimensions() (width, height, maxWidth int) {
	width = o.width
	if width == 0 {
		width = 60
	}
	height = o.height
	if height == 0 {
		height = 24
	}

	maxWidth = width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 60 {
		maxWidth = 60
	}
	return width, height, maxWidth
}

// viewWarning renders the countdown box.
func (o SessionTimeoutOverlay) viewWarning() string {
	width, height, maxWidth := o.dimensions()

	var parts []string

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Warning+" Session Expiring"))
	parts = append(parts, "")

	timeStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)
	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 4).
		Align(lipgloss.Center)
	parts = append(parts, msgStyle.Render(
		"Your session will expire in "+timeStyle.Render(session.FormatRemaining(o.timeRemaining))))
	parts = append(parts, "")

	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	actions := keyStyle.Render("["+o.keys.Extend.Help().Key+"]") + hintStyle.Render(" Stay signed in") +
		"    " +
		keyStyle.Render("["+o.keys.Logout.Help().Key+"]") + hintStyle.Render(" Log out")
	parts = append(parts, actions)

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Amber).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content),
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}

// viewExpired renders the alert shown after a forced logout.
func (o SessionTimeoutOverlay) viewExpired() string {
	width, height, maxWidth := o.dimensions()

	var parts []string

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Error+" Session Expired"))
	parts = append(parts, "")

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 4).
		Align(lipgloss.Center)
	msg := "Your session has expired. Please sign in again."
	if o.reason != "" {
		msg = o.reason + " Please sign in again."
	}
	parts = append(parts, msgStyle.Render(msg))
	parts = append(parts, "")

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true)
	parts = append(parts, hintStyle.Render("Press any key to continue"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Rose).
		Padding(1, 3).
		Width(maxWidth).
		Align(lipgloss.Center)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content),
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}
