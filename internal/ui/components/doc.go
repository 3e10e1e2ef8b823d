// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the clinic TUI.

Each component is a small value type with Update and View methods in the
Bubble Tea style. Components never touch the token store; they report user
intent as messages and the app model acts on them.

# Components

SessionTimeoutOverlay (session_timeout_overlay.go) - Expiry warning with a
live M:SS countdown and extend/logout actions, plus the separate alert
shown after a forced logout.

StatusBar (statusbar.go) - Dashboard footer with user, role and remaining
session time.

Spinner (spinner.go) - Loading indicator for API requests.

Table (table.go) - Width-aware table with a row cursor.

ToastManager (toast.go) - Auto-dismissing status and error toasts.
*/
package components
