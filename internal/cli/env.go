// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/api"
	"github.com/jeranaias/clinic-tui/internal/config"
	"github.com/jeranaias/clinic-tui/internal/logging"
	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/telemetry"
	"github.com/jeranaias/clinic-tui/internal/tokenstore"
)

// shutdownTimeout bounds the trace flush on exit.
const shutdownTimeout = 5 * time.Second

// Env is everything a command needs, built once from Args.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Log        *zap.Logger
	Backend    tokenstore.Backend
	Store      *tokenstore.Store
	Signal     *session.Signal
	Client     *api.Client

	shutdown telemetry.ShutdownFunc
}

// ResolveConfigPath returns --config or the default config file.
func ResolveConfigPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// LoadConfig loads the config named by args and applies the --api and
// --ephemeral overrides.
func LoadConfig(args Args) (*config.Config, string, error) {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}

	if args.APIURL != "" {
		cfg.API.BaseURL = strings.TrimSuffix(args.APIURL, "/")
		if err := cfg.Validate(); err != nil {
			return nil, path, fmt.Errorf("invalid --api: %w", err)
		}
	}
	if args.Ephemeral {
		cfg.Storage.Backend = tokenstore.KindMemory
	}
	return cfg, path, nil
}

// Open loads config and builds the logger, tracer, token store and API
// client. With --verbose, commands other than the TUI log to stderr.
func Open(ctx context.Context, cmd Command, args Args) (*Env, error) {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	if args.Verbose {
		level = "debug"
		if cmd != CmdTUI {
			logPath = logging.Stderr
		}
	}
	log, err := logging.New(level, logPath)
	if err != nil {
		return nil, err
	}

	storePath, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	backend, err := tokenstore.Open(cfg.Storage.Backend, storePath)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	env := NewEnv(cfg, backend, log)
	env.ConfigPath = path
	env.shutdown = telemetry.Setup(ctx, cfg.Telemetry, log)

	log.Debug("environment ready",
		zap.String("command", cmd.String()),
		zap.String("config", path),
		zap.String("api", cfg.API.BaseURL),
		zap.String("store", cfg.Storage.Backend),
	)
	return env, nil
}

// NewEnv wires a store, signal and client over an already open backend.
func NewEnv(cfg *config.Config, backend tokenstore.Backend, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	store := tokenstore.New(backend, tokenstore.WithLogger(log))
	sig := session.NewSignal()
	client := api.New(cfg.API.BaseURL, store, sig).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs)*time.Second).
		WithRateLimit(cfg.API.RateLimit, cfg.API.Burst).
		WithInsecureTLS(cfg.API.InsecureSkipVerify).
		WithValidity(cfg.Session.Validity()).
		WithLogger(log)

	return &Env{
		Config:  cfg,
		Log:     log,
		Backend: backend,
		Store:   store,
		Signal:  sig,
		Client:  client,
	}
}

// SessionConfig converts the session section for the timer and listener.
func (e *Env) SessionConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Validity = e.Config.Session.Validity()
	cfg.WarningThreshold = e.Config.Session.WarningThreshold()
	cfg.PollInterval = e.Config.Session.PollInterval()
	return cfg
}

// FileBackend returns the backend when it can be watched for changes made
// by other processes.
func (e *Env) FileBackend() (*tokenstore.FileBackend, bool) {
	fb, ok := e.Backend.(*tokenstore.FileBackend)
	return fb, ok
}

// Close flushes traces, closes the store and syncs the log.
func (e *Env) Close() {
	if e.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := e.shutdown(ctx); err != nil {
			e.Log.Warn("telemetry shutdown", zap.Error(err))
		}
		cancel()
	}
	if err := e.Backend.Close(); err != nil {
		e.Log.Warn("close token store", zap.Error(err))
	}
	_ = e.Log.Sync()
}
