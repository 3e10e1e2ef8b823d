// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
	"github.com/jeranaias/clinic-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is a key hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the dashboard footer.
type StatusBar struct {
	User      *model.User
	Remaining time.Duration
	Warning   bool // countdown is in the warning band
	Busy      bool // a request is in flight
	Width     int
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		Shortcuts: []Shortcut{
			{Key: "tab", Desc: "next"},
			{Key: "^L", Desc: "logout"},
			{Key: "^C", Desc: "quit"},
		},
		theme: theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar, dropping detail on narrow terminals.
func (s *StatusBar) View() string {
	if s.User == nil {
		return ""
	}

	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	role := s.theme.RoleBadge(s.User.Role.DisplayName(), styles.RoleColor(s.User.Role))
	left := []string{role}

	nameWidth := 24
	if s.Width < 60 {
		nameWidth = 12
	}
	left = append(left, lipgloss.NewStyle().Foreground(styles.TextPrimary).
		Render(util.TruncateWidth(s.User.DisplayName, nameWidth)))

	left = append(left, s.renderCountdown())

	if s.Busy {
		left = append(left, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(styles.StatusIndicators.Pending))
	}

	leftStr := strings.Join(left, sep)

	var right string
	if s.Width >= 80 {
		right = s.renderShortcuts()
	}

	gap := s.Width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
		right = ""
	}

	return s.theme.StatusBar.
		Width(s.Width).
		Render(leftStr + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderCountdown() string {
	color := styles.TextSecondary
	if s.Warning {
		color = styles.Amber
	}
	label := "Session "
	if s.Width < 60 {
		label = ""
	}
	return lipgloss.NewStyle().Foreground(color).Bold(s.Warning).
		Render(label + session.FormatRemaining(s.Remaining))
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(hints, "  ")
}
