// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands for clinic.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global flags plus the raw command arguments
//   - ArgParser: Flag and positional parsing shared by every command
//   - Env: Config, logger, token store and API client built from Args
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdTUI:
//	    runTUI(args)
//	case cli.CmdStatus:
//	    cli.HandleStatus(args)
//	}
//
// # Commands
//
//   - tui: Interactive dashboard (default)
//   - login, logout: Start or end a session without the UI
//   - status: Show the stored session and its remaining time
//   - extend: Push the session expiry forward
//   - config: Show, initialize or edit ~/.clinic/config.toml
//
// Commands that report data accept --json.
package cli
