// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for clinic.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend URL, timeout and outbound rate limit
//   - SessionConfig: Validity window, warning threshold, poll interval
//   - StorageConfig: Token store backend selection
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CLINIC_*), including a .env file in the
//     working directory
//   - ~/.clinic/config.toml
//   - Built-in defaults
//
// CLINIC_HOME relocates ~/.clinic.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	validity := cfg.Session.Validity()
package config
