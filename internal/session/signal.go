// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "context"

// Signal is a level-triggered "auth expired" flag. Raising it never blocks;
// repeated raises before a Wait collapse into one.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a lowered Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise sets the signal.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Reset lowers the signal, dropping a raise left over from an earlier
// session.
func (s *Signal) Reset() {
	select {
	case <-s.ch:
	default:
	}
}

// Wait blocks until the signal is raised or ctx ends. It reports whether
// the signal was raised.
func (s *Signal) Wait(ctx context.Context) bool {
	select {
	case <-s.ch:
		return true
	case <-ctx.Done():
		return false
	}
}
