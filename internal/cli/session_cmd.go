// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - login, logout, status and extend.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/telemetry"
	"github.com/jeranaias/clinic-tui/internal/tokenstore"
)

// logoutTimeout bounds the best-effort server logout.
const logoutTimeout = 5 * time.Second

// execute opens the environment, runs fn inside a span, and tears down.
// It never exits so deferred cleanup always runs.
func execute(ctx context.Context, cmd Command, args Args, fn func(context.Context, *Env) error) (err error) {
	env, err := Open(ctx, cmd, args)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, span := telemetry.Start(ctx, "cli."+cmd.String())
	defer func() { telemetry.End(span, err) }()

	err = fn(ctx, env)
	if err != nil {
		env.Log.Warn("command failed", zap.String("command", cmd.String()), zap.Error(err))
	}
	return err
}

// interruptContext is cancelled on SIGINT or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin signs in and stores the session.
func HandleLogin(args Args) {
	ctx, cancel := interruptContext()
	defer cancel()
	err := execute(ctx, CmdLogin, args, func(ctx context.Context, env *Env) error {
		return runLogin(ctx, env, NewArgParser(args.Raw), StdPrompter(), os.Stdout, args.JSON)
	})
	HandleErrorAndExit(err, args.JSON)
}

func runLogin(ctx context.Context, env *Env, p *ArgParser, prompt *Prompter, w io.Writer, jsonMode bool) error {
	email := strings.TrimSpace(p.Flag("email"))
	if email == "" {
		if jsonMode || p.BoolFlag("password-stdin") {
			return NewValidationErrorWithExample("email", "", "is required",
				"clinic login --email ana@example.com")
		}
		var err error
		if email, err = prompt.Input("Email: "); err != nil {
			return fmt.Errorf("read email: %w", err)
		}
	}
	if !strings.Contains(email, "@") {
		return NewValidationError("email", email, "must be an email address")
	}

	var (
		password string
		err      error
	)
	if p.BoolFlag("password-stdin") {
		password, err = prompt.Stdin()
	} else {
		password, err = prompt.Secret("Password: ")
	}
	if err != nil {
		return err
	}
	if password == "" {
		return NewValidationError("password", "", "is required")
	}

	ctx, span := telemetry.Start(ctx, "login", telemetry.Email(email))
	resp, err := env.Client.Login(ctx, email, password)
	telemetry.End(span, err)
	if err != nil {
		return NewCommandError("login", "authenticate", "sign in failed", err)
	}

	rec, _ := env.Store.TokenData()
	env.Log.Info("cli login", zap.String("role", resp.Role))

	data := LoginData{
		Email:     rec.Email,
		Role:      rec.Role.String(),
		ExpiresAt: rec.Expiry().UTC().Format(time.RFC3339),
	}
	if jsonMode {
		return NewJSONResponse("login", data).Write(w)
	}
	fmt.Fprintf(w, "%s Signed in as %s (%s)\n", SuccessStyle.Render("[OK]"), data.Email, rec.Role.DisplayName())
	fmt.Fprintf(w, "  Session expires in %s\n", session.FormatRemaining(env.Store.Remaining()))
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout ends the stored session.
func HandleLogout(args Args) {
	ctx, cancel := interruptContext()
	defer cancel()
	err := execute(ctx, CmdLogout, args, func(ctx context.Context, env *Env) error {
		return runLogout(ctx, env, os.Stdout, args.JSON)
	})
	HandleErrorAndExit(err, args.JSON)
}

// runLogout clears the session even when the server call fails; a server
// failure is reported but is not an error.
func runLogout(ctx context.Context, env *Env, w io.Writer, jsonMode bool) error {
	if !env.Store.IsValid() {
		// Drop any expired leftover
		if err := env.Store.Clear(); err != nil {
			return err
		}
		if jsonMode {
			return NewJSONResponse("logout", map[string]bool{"was_active": false}).Write(w)
		}
		fmt.Fprintln(w, DimStyle.Render("No active session."))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
	defer cancel()
	serverErr := env.Client.Logout(ctx)
	if serverErr != nil {
		env.Log.Warn("server logout failed", zap.Error(serverErr))
	}

	if jsonMode {
		data := map[string]interface{}{"was_active": true, "server_notified": serverErr == nil}
		return NewJSONResponse("logout", data).Write(w)
	}
	fmt.Fprintf(w, "%s Signed out\n", SuccessStyle.Render("[OK]"))
	if serverErr != nil {
		fmt.Fprintf(w, "  %s %v\n", WarningStyle.Render("Server was not notified:"), serverErr)
	}
	return nil
}

// =============================================================================
// STATUS
// =============================================================================

// HandleStatus shows the stored session.
func HandleStatus(args Args) {
	ctx, cancel := interruptContext()
	defer cancel()
	err := execute(ctx, CmdStatus, args, func(ctx context.Context, env *Env) error {
		p := NewArgParser(args.Raw)
		if p.BoolFlag("watch") || p.BoolFlag("w") {
			return runStatusWatch(ctx, env, os.Stdout, args.JSON)
		}
		return runStatus(env, os.Stdout, args.JSON)
	})
	HandleErrorAndExit(err, args.JSON)
}

func statusData(env *Env) StatusData {
	data := StatusData{
		Store: env.Config.Storage.Backend,
		API:   env.Client.BaseURL(),
	}
	rec, ok := env.Store.TokenData()
	if !ok {
		return data
	}
	remaining := env.Store.Remaining()
	data.Active = remaining > 0
	data.Email = rec.Email
	data.Role = rec.Role.String()
	data.ExpiresAt = rec.Expiry().UTC().Format(time.RFC3339)
	data.RemainingSec = int(remaining / time.Second)
	data.Warning = data.Active && remaining <= env.Config.Session.WarningThreshold()
	return data
}

func runStatus(env *Env, w io.Writer, jsonMode bool) error {
	data := statusData(env)
	if jsonMode {
		return NewJSONResponse("status", data).Write(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("Clinic Session"))
	fmt.Fprintln(w, RenderSeparator())
	fmt.Fprintln(w, RenderField("API", data.API))
	fmt.Fprintln(w, RenderField("Store", data.Store))
	if !data.Active {
		fmt.Fprintln(w, RenderField("Session", "none"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, DimStyle.Render("Run 'clinic login' or 'clinic' to sign in."))
		return nil
	}

	remaining := session.FormatRemaining(time.Duration(data.RemainingSec) * time.Second)
	if data.Warning {
		remaining = WarningStyle.Render(remaining + " (expiring soon)")
	}
	fmt.Fprintln(w, RenderField("User", data.Email))
	fmt.Fprintln(w, RenderField("Role", data.Role))
	fmt.Fprintln(w, RenderField("Expires", data.ExpiresAt))
	fmt.Fprintln(w, RenderField("Remaining", remaining))
	return nil
}

// runStatusWatch prints every change of the countdown until the session
// expires or ctx ends. With jsonMode each tick is one JSON line.
func runStatusWatch(ctx context.Context, env *Env, w io.Writer, jsonMode bool) error {
	if !env.Store.IsValid() {
		return tokenstore.ErrNoSession
	}

	enc := json.NewEncoder(w)
	timer := session.NewTimer(env.Store, env.SessionConfig())
	err := timer.Run(ctx, 0, func(ev session.Event, remaining time.Duration) {
		if jsonMode {
			_ = enc.Encode(map[string]interface{}{
				"event":             ev.String(),
				"remaining_seconds": int(remaining / time.Second),
				"warning":           timer.State() == session.StateWarning,
			})
			return
		}
		switch ev {
		case session.EventExpired:
			fmt.Fprintln(w, ErrorStyle.Render("Session expired."))
		case session.EventWarningShown:
			fmt.Fprintln(w, WarningStyle.Render("Session expires in "+session.FormatRemaining(remaining)))
		default:
			fmt.Fprintf(w, "Session %s\n", session.FormatRemaining(remaining))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}

	// Reading the record again removes it
	env.Store.TokenData()
	env.Log.Info("SESSION_EXPIRED", zap.String("source", "status --watch"))
	return nil
}

// =============================================================================
// EXTEND
// =============================================================================

// HandleExtend extends the stored session.
func HandleExtend(args Args) {
	ctx, cancel := interruptContext()
	defer cancel()
	err := execute(ctx, CmdExtend, args, func(ctx context.Context, env *Env) error {
		return runExtend(env, NewArgParser(args.Raw), os.Stdout, args.JSON)
	})
	HandleErrorAndExit(err, args.JSON)
}

func runExtend(env *Env, p *ArgParser, w io.Writer, jsonMode bool) error {
	window := env.Config.Session.Validity()
	if p.HasFlag("minutes") {
		minutes, err := ParseIntWithValidation(p.Flag("minutes"), "minutes")
		if err != nil {
			return NewValidationErrorWithExample("minutes", p.Flag("minutes"), err.Error(),
				"clinic extend --minutes 5")
		}
		window = time.Duration(minutes) * time.Minute
	}

	if err := env.Store.Extend(window); err != nil {
		if errors.Is(err, tokenstore.ErrNoSession) {
			return NewCommandError("extend", "session", "nothing to extend, sign in first", err)
		}
		return err
	}

	rec, _ := env.Store.TokenData()
	data := ExtendData{
		ExpiresAt:    rec.Expiry().UTC().Format(time.RFC3339),
		RemainingSec: int(env.Store.Remaining() / time.Second),
	}
	if jsonMode {
		return NewJSONResponse("extend", data).Write(w)
	}
	fmt.Fprintf(w, "%s Session extended, %s remaining\n", SuccessStyle.Render("[OK]"),
		session.FormatRemaining(time.Duration(data.RemainingSec)*time.Second))
	return nil
}
