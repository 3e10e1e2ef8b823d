// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/clinic-tui/internal/api"
	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
)

// =============================================================================
// MESSAGES
// =============================================================================

// Stamped is implemented by dashboard replies. SessionEpoch is the epoch
// of the session that issued the request.
type Stamped interface {
	SessionEpoch() uint64
}

// stamp is embedded in dashboard replies.
type stamp struct {
	epoch uint64
}

func (s stamp) SessionEpoch() uint64 { return s.epoch }

// LoginResultMsg carries the outcome of a login request.
type LoginResultMsg struct {
	Email string
	Role  model.Role
	Err   error
}

// RegisterResultMsg carries the outcome of a registration request.
type RegisterResultMsg struct {
	Message string
	Err     error
}

// ShowRegisterMsg asks the app to switch to the registration form.
type ShowRegisterMsg struct{}

// ShowLoginMsg asks the app to switch to the login form.
type ShowLoginMsg struct{}

// ToastMsg asks the app to show a toast.
type ToastMsg struct {
	Kind components.ToastKind
	Text string
}

func toast(kind components.ToastKind, text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Kind: kind, Text: text} }
}

// =============================================================================
// ERROR TEXT
// =============================================================================

// ErrorText turns an API error into a line for the user.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "Your session is no longer valid."
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fmt.Sprintf("Could not reach the server: %v", err)
}

// loginErrorText maps login failures. Rejected credentials get one
// message regardless of what the server said.
func loginErrorText(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "Invalid credentials"
	}
	if errors.Is(err, api.ErrNoToken) {
		return "Sign-in failed: the server did not issue a session."
	}
	if errors.Is(err, model.ErrUnknownRole) {
		return "Sign-in failed: this account has no dashboard."
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		return "Invalid credentials"
	}
	return ErrorText(err)
}

// sentence capitalizes a validation error for display.
func sentence(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
