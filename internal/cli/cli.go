// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents a CLI command.
type Command int

const (
	// CmdTUI starts the interactive UI (default).
	CmdTUI Command = iota
	// CmdLogin signs in without the UI.
	CmdLogin
	// CmdLogout ends the stored session.
	CmdLogout
	// CmdStatus shows the stored session.
	CmdStatus
	// CmdExtend pushes the session expiry forward.
	CmdExtend
	// CmdConfig manages the config file.
	CmdConfig
	// CmdVersion shows version information.
	CmdVersion
	// CmdHelp shows help.
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdLogout:
		return "logout"
	case CmdStatus:
		return "status"
	case CmdExtend:
		return "extend"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds the parsed global flags and the command's own arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config PATH
	APIURL     string // --api URL
	Ephemeral  bool   // --ephemeral: keep the session in memory only
	Verbose    bool   // -v, --verbose: debug logging
	JSON       bool   // --json: machine-readable output

	// Subcommand is the first argument after the command (config show).
	Subcommand string

	// Raw holds everything after the command name, minus global flags.
	Raw []string

	// Unknown is set when the command name was not recognized.
	Unknown string
}

const usageText = `clinic - terminal client for the clinic management API

USAGE:
  clinic [flags] [command]

COMMANDS:
  tui                        Start the interactive dashboard (default)
  login --email E            Sign in and store the session
        [--password-stdin]   Read the password from stdin
  logout                     Sign out and clear the stored session
  status [--watch]           Show the stored session and time remaining
  extend [--minutes N]       Extend the stored session
  config [show|path|init]    Show or create the config file
  config get KEY             Print one config value
  config set KEY VALUE       Change one config value
  version                    Show version information
  help                       Show this help

FLAGS:
  --config PATH              Config file (default ~/.clinic/config.toml)
  --api URL                  Backend API root, overrides api.base_url
  --ephemeral                Keep the session in memory only
  -v, --verbose              Debug logging
  --json                     JSON output (status, login, extend, config, version)

ENVIRONMENT:
  CLINIC_HOME                Config directory (default ~/.clinic)
  CLINIC_API_URL             Backend API root
  CLINIC_SESSION_MINUTES     Session validity window
  CLINIC_WARNING_MINUTES     Expiry warning threshold
  CLINIC_STORE               Token store backend: file, sqlite or memory
  CLINIC_LOG_LEVEL           debug, info, warn or error
  CLINIC_LOG_PATH            Log file, or "stderr"
  CLINIC_OTEL_ENDPOINT       OTLP gRPC collector for tracing

EXAMPLES:
  clinic
  clinic login --email ana@example.com
  echo "$PASS" | clinic login --email ana@example.com --password-stdin
  clinic status --json
  clinic config set session.validity_minutes 10
`

// PrintUsage prints the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv, which excludes the program name. Global flags may
// appear anywhere.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		parsedArgs.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "login", "signin":
		return CmdLogin, parsedArgs
	case "logout", "signout":
		return CmdLogout, parsedArgs
	case "status", "s":
		return CmdStatus, parsedArgs
	case "extend":
		return CmdExtend, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "version", "--version", "-V":
		return CmdVersion, parsedArgs
	case "help", "--help", "-h":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "--ephemeral":
			parsedArgs.Ephemeral = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		case "--api":
			if i+1 < len(args) {
				i++
				parsedArgs.APIURL = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--api="):
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

func versionData() VersionData {
	return VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

func runVersion(w io.Writer, jsonMode bool) error {
	data := versionData()
	if jsonMode {
		return NewJSONResponse("version", data).Write(w)
	}
	fmt.Fprintf(w, "clinic %s\n", data.Version)
	fmt.Fprintf(w, "  Commit: %s\n", data.GitCommit)
	fmt.Fprintf(w, "  Built:  %s\n", data.BuildDate)
	fmt.Fprintf(w, "  Go:     %s\n", data.GoVersion)
	return nil
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if err := runVersion(os.Stdout, args.JSON); err != nil {
		HandleErrorAndExit(err, args.JSON)
	}
}

// HandleHelp prints usage. An unknown command prints an error first and
// exits with ExitUsageError.
func HandleHelp(args Args) {
	if args.Unknown != "" {
		fmt.Fprintf(os.Stderr, "%s unknown command %q\n\n", ErrorStyle.Render("Error:"), args.Unknown)
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(ExitUsageError)
	}
	PrintUsage()
}
