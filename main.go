// clinic - terminal client for the clinic management API.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/api"
	"github.com/jeranaias/clinic-tui/internal/auth"
	"github.com/jeranaias/clinic-tui/internal/cli"
	"github.com/jeranaias/clinic-tui/internal/ui/app"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.GetExitCode(err))
		}
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdExtend:
		cli.HandleExtend(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	default:
		cli.PrintUsage()
	}
}

func runTUI(args cli.Args) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	env, err := cli.Open(ctx, cli.CmdTUI, args)
	if err != nil {
		return err
	}
	defer env.Close()

	ctrl := auth.New(env.Store,
		auth.WithSessionConfig(env.SessionConfig()),
		auth.WithLogger(env.Log),
		auth.WithSignal(env.Signal),
		auth.WithIdentity(api.Identity),
	)

	opts := []app.Option{app.WithLogger(env.Log)}
	if fb, ok := env.FileBackend(); ok {
		opts = append(opts, app.WithWatcher(fb))
	}
	m := app.New(ctx, ctrl, env.Store, env.Client, styles.NewTheme(env.Config.UI.Theme), opts...)
	defer m.Shutdown()

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if env.Config.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	env.Log.Info("starting tui", zap.String("api", env.Client.BaseURL()), zap.String("version", Version))
	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil && err != tea.ErrProgramKilled {
		return fmt.Errorf("run tui: %w", err)
	}
	env.Log.Info("tui exited")
	return nil
}
