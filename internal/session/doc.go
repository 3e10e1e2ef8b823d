// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives client-side session expiry.
//
// The credential's expiry lives in the token store; this package only
// observes it. Three pieces cooperate:
//
//   - Timer: polled once per second, moves between Hidden, Warning and
//     Expired and reports each transition as an Event
//   - ActivityListener: extends the session on user interaction once less
//     than half of the validity window is left, and polls validity every
//     30 seconds as a safety net
//   - Signal: a non-blocking "auth expired" flag raised by the HTTP client
//     on 401 and by the store watcher
//
// # Usage
//
//	timer := session.NewTimer(store, session.DefaultConfig())
//	switch timer.Tick() {
//	case session.EventWarningShown:
//	    overlay.Show(timer.Remaining())
//	case session.EventExpired:
//	    controller.Logout(auth.ReasonExpired)
//	}
//
// Bubble Tea programs use TickCmd and PollCmd, stamped with the session
// epoch so that ticks from a finished session are dropped. Headless callers
// use Run.
package session
