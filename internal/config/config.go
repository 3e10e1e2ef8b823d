// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/clinic-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete clinic configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend API
	API APIConfig `toml:"api" json:"api"`

	// Client-side session expiry
	Session SessionConfig `toml:"session" json:"session"`

	// Token store backend
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Structured logging
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// OpenTelemetry tracing
	Telemetry TelemetryConfig `toml:"telemetry" json:"telemetry"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the API root, e.g. https://localhost:7000/api
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RateLimit is the sustained outbound requests per second
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
	// Burst is the number of requests allowed at once
	Burst int `toml:"burst" json:"burst"`
	// InsecureSkipVerify accepts self-signed development certificates
	InsecureSkipVerify bool `toml:"insecure_skip_verify" json:"insecure_skip_verify"`
}

// SessionConfig contains session expiry settings.
type SessionConfig struct {
	// ValidityMinutes is the window applied on login and extension
	ValidityMinutes int `toml:"validity_minutes" json:"validity_minutes"`
	// WarningThresholdMinutes shows the expiry warning at or below this
	WarningThresholdMinutes int `toml:"warning_threshold_minutes" json:"warning_threshold_minutes"`
	// ValidityPollSecs is the validity safety-net interval
	ValidityPollSecs int `toml:"validity_poll_secs" json:"validity_poll_secs"`
}

// Validity returns ValidityMinutes as a duration.
func (s SessionConfig) Validity() time.Duration {
	return time.Duration(s.ValidityMinutes) * time.Minute
}

// WarningThreshold returns WarningThresholdMinutes as a duration.
func (s SessionConfig) WarningThreshold() time.Duration {
	return time.Duration(s.WarningThresholdMinutes) * time.Minute
}

// PollInterval returns ValidityPollSecs as a duration.
func (s SessionConfig) PollInterval() time.Duration {
	return time.Duration(s.ValidityPollSecs) * time.Second
}

// StorageConfig selects the token store backend.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory"
	Backend string `toml:"backend" json:"backend"`
	// Path is the store directory (file) or database (sqlite). Empty means
	// a default under the config directory.
	Path string `toml:"path" json:"path"`
}

// LoggingConfig contains log settings.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" json:"level"`
	// Path is the log file, or "stderr". Empty means ~/.clinic/clinic.log.
	Path string `toml:"path" json:"path"`
}

// TelemetryConfig contains OpenTelemetry exporter settings.
type TelemetryConfig struct {
	// Endpoint is the OTLP gRPC collector; empty disables tracing
	Endpoint string `toml:"endpoint" json:"endpoint"`
	// Insecure disables TLS to the collector
	Insecure bool `toml:"insecure" json:"insecure"`
	// ServiceName is reported as service.name
	ServiceName string `toml:"service_name" json:"service_name"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// Mouse enables mouse reporting so clicks and scrolls count as activity
	Mouse bool `toml:"mouse" json:"mouse"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "https://localhost:7000/api",
			TimeoutSecs: 30,
			RateLimit:   10,
			Burst:       20,
		},

		Session: SessionConfig{
			ValidityMinutes:         3,
			WarningThresholdMinutes: 1,
			ValidityPollSecs:        30,
		},

		Storage: StorageConfig{
			Backend: "file",
		},

		Logging: LoggingConfig{
			Level: "info",
		},

		Telemetry: TelemetryConfig{
			ServiceName: "clinic-tui",
		},

		UI: UIConfig{
			Theme: "auto",
			Mouse: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the clinic configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CLINIC_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".clinic"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// StorePath resolves Storage.Path, defaulting by backend.
func (c *Config) StorePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if strings.EqualFold(c.Storage.Backend, "sqlite") {
		return filepath.Join(dir, "clinic.db"), nil
	}
	return filepath.Join(dir, "store"), nil
}

// LogPath resolves Logging.Path.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "clinic.log"), nil
}

// ensureSecurePermissions tightens a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.clinic/config.toml, falling back to defaults when it does
// not exist.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path with env overrides and full
// validation. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	loadDotEnv()

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads .env from the working directory. Existing environment
// variables win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
}

// LoadTOML loads configuration from a TOML file over cfg.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = defaults.API.RateLimit
	}
	if cfg.API.Burst == 0 {
		cfg.API.Burst = defaults.API.Burst
	}

	if cfg.Session.ValidityMinutes == 0 {
		cfg.Session.ValidityMinutes = defaults.Session.ValidityMinutes
	}
	if cfg.Session.WarningThresholdMinutes == 0 {
		cfg.Session.WarningThresholdMinutes = defaults.Session.WarningThresholdMinutes
	}
	if cfg.Session.ValidityPollSecs == 0 {
		cfg.Session.ValidityPollSecs = defaults.Session.ValidityPollSecs
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = defaults.Telemetry.ServiceName
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with a header comment.
// SECURITY: Written atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# clinic configuration file")
	fmt.Fprintln(&buf, "# Generated by clinic - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// API
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]/path", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.RateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "api.rate_limit", Message: "must be positive"})
	}
	if c.API.Burst < 1 {
		errs = append(errs, ValidationError{Field: "api.burst", Message: "must be at least 1"})
	}

	// Session
	if c.Session.ValidityMinutes < 1 || c.Session.ValidityMinutes > 24*60 {
		errs = append(errs, ValidationError{
			Field:   "session.validity_minutes",
			Message: fmt.Sprintf("must be between 1 and 1440, got %d", c.Session.ValidityMinutes),
		})
	}
	if c.Session.WarningThresholdMinutes < 1 || c.Session.WarningThresholdMinutes >= c.Session.ValidityMinutes {
		errs = append(errs, ValidationError{
			Field:   "session.warning_threshold_minutes",
			Message: fmt.Sprintf("must be at least 1 and below validity_minutes (%d), got %d", c.Session.ValidityMinutes, c.Session.WarningThresholdMinutes),
		})
	}
	if c.Session.ValidityPollSecs < 1 {
		errs = append(errs, ValidationError{Field: "session.validity_poll_secs", Message: "must be at least 1"})
	}

	// Storage
	validBackends := map[string]bool{"file": true, "sqlite": true, "memory": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, memory", c.Storage.Backend),
		})
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	// UI
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - CLINIC_API_URL: overrides api.base_url
//   - CLINIC_INSECURE_TLS: overrides api.insecure_skip_verify
//   - CLINIC_SESSION_MINUTES: overrides session.validity_minutes
//   - CLINIC_WARNING_MINUTES: overrides session.warning_threshold_minutes
//   - CLINIC_STORE: overrides storage.backend
//   - CLINIC_STORE_PATH: overrides storage.path
//   - CLINIC_LOG_LEVEL: overrides logging.level
//   - CLINIC_LOG_PATH: overrides logging.path
//   - CLINIC_OTEL_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT: overrides telemetry.endpoint
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CLINIC_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CLINIC_INSECURE_TLS"); v != "" {
		c.API.InsecureSkipVerify = parseBool(v)
	}
	if v := os.Getenv("CLINIC_SESSION_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.ValidityMinutes = n
		}
	}
	if v := os.Getenv("CLINIC_WARNING_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.WarningThresholdMinutes = n
		}
	}
	if v := os.Getenv("CLINIC_STORE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("CLINIC_STORE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CLINIC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CLINIC_LOG_PATH"); v != "" {
		c.Logging.Path = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("CLINIC_OTEL_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		c.Telemetry.Insecure = parseBool(v)
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "session.validity_minutes").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns all configuration keys in dot notation.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		section := f.Tag.Get("toml")
		if f.Type.Kind() != reflect.Struct {
			keys = append(keys, section)
			continue
		}
		for j := 0; j < f.Type.NumField(); j++ {
			keys = append(keys, section+"."+f.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}
