// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth coordinates the signed-in session.
//
// Controller is the only writer of the current view and user. It restores
// a session from the token store at startup, owns the session Timer and
// ActivityListener, and funnels every way a session can end (explicit
// logout, timer expiry, failed validity poll, auth-expired signal) into
// Logout.
//
// Each login and logout bumps the session epoch. Timer ticks, validity
// polls and signal waits carry the epoch they were armed with, and the UI
// drops any whose epoch is stale. That is how per-session work is torn down
// on every exit path.
//
// Controller is not safe for concurrent use; call it from the UI event loop.
package auth
