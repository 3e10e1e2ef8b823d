// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - clinic config [show|path|init|get|set].

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/clinic-tui/internal/config"
)

// HandleConfig manages the config file. It does not open the token store.
func HandleConfig(args Args) {
	err := runConfig(args, NewArgParser(args.Raw), StdPrompter(), os.Stdout)
	HandleErrorAndExit(err, args.JSON)
}

func runConfig(args Args, p *ArgParser, prompt *Prompter, w io.Writer) error {
	path, err := ResolveConfigPath(args)
	if err != nil {
		return err
	}

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "show":
		return configShow(args, path, w)
	case "path":
		if args.JSON {
			return NewJSONResponse("config path", map[string]string{"path": path}).Write(w)
		}
		fmt.Fprintln(w, path)
		return nil
	case "init":
		return configInit(path, p.BoolFlag("force"), prompt, w, args.JSON)
	case "get":
		return configGet(args, path, p.Positional(1), w)
	case "set":
		return configSet(path, p.Positional(1), p.PositionalFrom(2), w, args.JSON)
	case "keys":
		for _, k := range config.Keys() {
			fmt.Fprintln(w, k)
		}
		return nil
	default:
		return NewValidationErrorWithExample("config subcommand", sub,
			"must be show, path, init, get, set or keys", "clinic config get api.base_url")
	}
}

func configShow(args Args, path string, w io.Writer) error {
	cfg, _, err := LoadConfig(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config show", cfg).Write(w)
	}
	fmt.Fprintf(w, "# %s\n", path)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(w, "# (file does not exist, showing defaults)")
	}
	return toml.NewEncoder(w).Encode(cfg)
}

func configInit(path string, force bool, prompt *Prompter, w io.Writer, jsonMode bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		if jsonMode || !prompt.YesNo(fmt.Sprintf("%s exists. Overwrite with defaults?", path)) {
			return NewCommandError("config", "init", "file exists (use --force to overwrite)", nil)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	if jsonMode {
		return NewJSONResponse("config init", map[string]string{"path": path}).Write(w)
	}
	fmt.Fprintf(w, "%s Wrote %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

func configGet(args Args, path, key string, w io.Writer) error {
	if key == "" {
		return NewValidationErrorWithExample("key", "", "is required", "clinic config get session.validity_minutes")
	}
	cfg, _, err := LoadConfig(args)
	if err != nil {
		return err
	}
	value, err := cfg.Get(key)
	if err != nil {
		return NewNotFoundError("config key", key)
	}
	if args.JSON {
		return NewJSONResponse("config get", ConfigValueData{Key: key, Value: value}).Write(w)
	}
	fmt.Fprintln(w, value)
	return nil
}

// configSet edits the file itself, so environment overrides are not
// written back.
func configSet(path, key string, rest []string, w io.Writer, jsonMode bool) error {
	if key == "" || len(rest) == 0 {
		return NewValidationErrorWithExample("arguments", strings.TrimSpace(key+" "+strings.Join(rest, " ")),
			"need a key and a value", "clinic config set api.base_url http://localhost:5000/api")
	}
	value := strings.Join(rest, " ")

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return err
		}
	}

	current, err := cfg.Get(key)
	if err != nil {
		return NewNotFoundError("config key", key)
	}
	if _, ok := current.(bool); ok {
		b, err := ParseBoolString(value)
		if err != nil {
			return NewValidationError(key, value, "must be true or false")
		}
		value = fmt.Sprint(b)
	}
	if err := cfg.Set(key, value); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}

	newValue, _ := cfg.Get(key)
	if jsonMode {
		return NewJSONResponse("config set", ConfigValueData{Key: key, Value: newValue}).Write(w)
	}
	fmt.Fprintf(w, "%s %s = %v\n", SuccessStyle.Render("[OK]"), key, newValue)
	return nil
}
