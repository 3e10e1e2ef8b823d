// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the clinic packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - RemoveIfExists: Delete a file, treating "missing" as success
//
// String Utilities:
//   - TruncateWidth: Display-width aware truncation with ellipsis
//   - PadWidth: Right-pad to a display width for table cells
//   - Fingerprint: Short SHA-256 prefix for logging secrets safely
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	cell := util.PadWidth(util.TruncateWidth(name, 20), 20)
package util
