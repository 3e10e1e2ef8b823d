// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/clinic-tui/internal/session"
)

// KeyMap holds the bindings that work on every screen. Everything else is
// left to the active view so forms can take any printable key.
type KeyMap struct {
	Quit   key.Binding
	Logout key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^C", "quit"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^L", "logout"),
		),
	}
}

// activityKind maps a mouse event to an activity kind. Motion is not
// activity.
func activityKind(msg tea.MouseMsg) (session.ActivityKind, bool) {
	switch msg.Type {
	case tea.MouseLeft, tea.MouseRight, tea.MouseMiddle:
		return session.PointerPress, true
	case tea.MouseWheelUp, tea.MouseWheelDown:
		return session.Scroll, true
	case tea.MouseRelease:
		return session.Click, true
	}
	return 0, false
}
