// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// TokenSource is the part of the token store the session machinery reads.
type TokenSource interface {
	IsValid() bool
	Remaining() time.Duration
	Extend(d time.Duration) error
}

// Config holds timer and listener settings.
type Config struct {
	// Validity is the window applied on extension (default: 3 minutes)
	Validity time.Duration

	// WarningThreshold shows the warning at or below this remaining time
	// (default: 1 minute)
	WarningThreshold time.Duration

	// TickInterval is the timer polling cadence (default: 1 second)
	TickInterval time.Duration

	// PollInterval is the validity safety-net cadence (default: 30 seconds)
	PollInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Validity:         3 * time.Minute,
		WarningThreshold: time.Minute,
		TickInterval:     time.Second,
		PollInterval:     30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Validity <= 0 {
		c.Validity = def.Validity
	}
	if c.WarningThreshold <= 0 {
		c.WarningThreshold = def.WarningThreshold
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	return c
}

// =============================================================================
// TIMER STATE
// =============================================================================

// State is the timer's visible state.
type State int

const (
	StateHidden State = iota
	StateWarning
	StateExpired
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateWarning:
		return "warning"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Event is what a Timer call asks the caller to do.
type Event int

const (
	EventNone Event = iota
	EventWarningShown
	EventWarningHidden
	EventExpired
	EventLogout
)

// String returns the string representation of the event.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventWarningShown:
		return "warning_shown"
	case EventWarningHidden:
		return "warning_hidden"
	case EventExpired:
		return "expired"
	case EventLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// =============================================================================
// TIMER
// =============================================================================

// Timer is a polling state machine over a TokenSource's remaining time.
type Timer struct {
	mu        sync.Mutex
	src       TokenSource
	cfg       Config
	state     State
	remaining time.Duration
}

// NewTimer creates a Timer in the Hidden state.
func NewTimer(src TokenSource, cfg Config) *Timer {
	return &Timer{
		src: src,
		cfg: cfg.withDefaults(),
	}
}

// Config returns the effective configuration.
func (t *Timer) Config() Config {
	return t.cfg
}

// Tick reads the remaining time and advances the state machine. Expiry is
// reported exactly once; later ticks return EventNone until Reset.
func (t *Timer) Tick() Event {
	remaining := t.src.Remaining()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.remaining = remaining
	if t.state == StateExpired {
		return EventNone
	}

	switch {
	case remaining <= 0:
		t.state = StateExpired
		return EventExpired

	case remaining <= t.cfg.WarningThreshold:
		if t.state != StateWarning {
			t.state = StateWarning
			return EventWarningShown
		}

	case t.state == StateWarning:
		t.state = StateHidden
		return EventWarningHidden
	}
	return EventNone
}

// Extend is the "extend session" action: the store gets a fresh validity
// window and the warning is hidden.
func (t *Timer) Extend() error {
	if err := t.src.Extend(t.cfg.Validity); err != nil {
		return err
	}
	remaining := t.src.Remaining()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = remaining
	if t.state != StateExpired {
		t.state = StateHidden
	}
	return nil
}

// LogoutNow is the "logout now" action.
func (t *Timer) LogoutNow() Event {
	return EventLogout
}

// Reset returns the timer to Hidden for a new session.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateHidden
	t.remaining = 0
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the value read by the last Tick or Extend.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Run ticks immediately and then every interval, passing each event and the
// remaining time to fn. It returns nil after reporting expiry, or the
// context's error when ctx ends first.
func (t *Timer) Run(ctx context.Context, interval time.Duration, fn func(Event, time.Duration)) error {
	if interval <= 0 {
		interval = t.cfg.TickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ev := t.Tick()
		if fn != nil {
			fn(ev, t.Remaining())
		}
		if ev == EventExpired {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatRemaining renders d as M:SS, truncating to whole seconds.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
