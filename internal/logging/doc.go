// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the structured zap logger shared by clinic.
//
// The terminal belongs to the UI, so logs go to ~/.clinic/clinic.log by
// default. Session lifecycle records use SESSION_* messages with a
// token fingerprint, never the token itself.
package logging
