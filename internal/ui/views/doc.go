// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views provides the screens of the clinic TUI: the login and
// registration forms and one dashboard per role.
//
// Views call the backend from tea.Cmd goroutines and report results as
// messages. Dashboard results carry the session epoch they were issued
// under (see Stamped) so the app can drop replies that arrive after the
// session that asked for them has ended.
package views
