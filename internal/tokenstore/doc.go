// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tokenstore owns the session credential.
//
// A Store keeps exactly one Record (token, email, role, expiry) under the
// key "authTokenData" in a durable Backend so the session survives a
// restart. Expired or malformed records are treated as absent and removed
// on read. Every operation is guarded by a single mutex, and the clock is
// injectable so tests can move time forward.
//
// # Backends
//
//   - FileBackend: one JSON file per key, written atomically (default)
//   - SQLiteBackend: a single kv table in a SQLite database
//   - MemoryBackend: process-local, used for --ephemeral runs and tests
//
// # Usage
//
//	backend, _ := tokenstore.NewFileBackend(dir)
//	store := tokenstore.New(backend, tokenstore.WithLogger(log))
//	_ = store.SetToken(tok, "ana@clinic.ro", model.RoleClient, 0)
//	if tok, ok := store.Token(); ok {
//	    req.Header.Set("Authorization", "Bearer "+tok)
//	}
package tokenstore
