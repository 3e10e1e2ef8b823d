// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"go.uber.org/zap"
)

// ActivityKind identifies the interaction that counts as activity.
type ActivityKind int

const (
	KeyPress ActivityKind = iota
	PointerPress
	Scroll
	Click
)

// String returns the string representation of the kind.
func (k ActivityKind) String() string {
	switch k {
	case KeyPress:
		return "keypress"
	case PointerPress:
		return "pointerpress"
	case Scroll:
		return "scroll"
	case Click:
		return "click"
	default:
		return "unknown"
	}
}

// ShouldExtend reports whether activity at the given remaining time should
// extend the session: only while valid and once less than half the window
// is left.
func ShouldExtend(remaining, halfWindow time.Duration) bool {
	return remaining > 0 && remaining < halfWindow
}

// ActivityListener turns user interaction into session extensions.
type ActivityListener struct {
	src    TokenSource
	window time.Duration
	log    *zap.Logger
}

// NewActivityListener creates a listener that extends src by window.
func NewActivityListener(src TokenSource, window time.Duration, log *zap.Logger) *ActivityListener {
	if window <= 0 {
		window = DefaultConfig().Validity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityListener{src: src, window: window, log: log}
}

// Observe handles one interaction and reports whether it extended the
// session.
func (l *ActivityListener) Observe(kind ActivityKind) bool {
	if !l.src.IsValid() {
		return false
	}
	remaining := l.src.Remaining()
	if !ShouldExtend(remaining, l.window/2) {
		return false
	}
	if err := l.src.Extend(l.window); err != nil {
		l.log.Debug("activity extension skipped", zap.Error(err))
		return false
	}
	l.log.Debug("session extended on activity",
		zap.Stringer("kind", kind),
		zap.Duration("remaining_before", remaining),
	)
	return true
}

// Poll is the periodic validity check. False means the session must end.
func (l *ActivityListener) Poll() bool {
	return l.src.IsValid()
}
