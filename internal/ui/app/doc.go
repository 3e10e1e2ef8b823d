// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It owns the session lifecycle
// on screen: it restores a persisted session at startup, arms the session
// tick, validity poll and auth-expired waiter for each session, treats key
// and mouse input as activity, and switches between the sign-in forms and
// the role dashboards.
//
// Every session gets an epoch from the auth controller. Ticks, polls,
// signal waits and dashboard replies carry the epoch they were issued
// under, and the model drops any that belong to an earlier session.
package app
