// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg drives Timer.Tick. Epoch identifies the session that armed it.
type TickMsg struct {
	Epoch uint64
	Time  time.Time
}

// PollMsg drives ActivityListener.Poll.
type PollMsg struct {
	Epoch uint64
}

// AuthExpiredMsg is delivered when the Signal is raised during a session.
type AuthExpiredMsg struct {
	Epoch uint64
}

// TickCmd returns a command that delivers a TickMsg after interval.
func TickCmd(epoch uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Epoch: epoch, Time: t}
	})
}

// PollCmd returns a command that delivers a PollMsg after interval.
func PollCmd(epoch uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return PollMsg{Epoch: epoch}
	})
}

// WaitCmd blocks on sig until it is raised or ctx ends. Cancelling ctx at
// logout releases the goroutine; it then returns nil.
func WaitCmd(ctx context.Context, sig *Signal, epoch uint64) tea.Cmd {
	return func() tea.Msg {
		if sig.Wait(ctx) {
			return AuthExpiredMsg{Epoch: epoch}
		}
		return nil
	}
}
