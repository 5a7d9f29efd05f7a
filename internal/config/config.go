// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete neerai configuration.
type Config struct {
	// Version of the config schema
	Version string `toml:"version"`

	// Language is the default interface language (English name or
	// BCP-47 tag, e.g. "Hindi" or "hi")
	Language string `toml:"language"`

	// API configuration
	API APIConfig `toml:"api"`

	// Auth configuration
	Auth AuthConfig `toml:"auth"`

	// History configuration
	History HistoryConfig `toml:"history"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`
}

// APIConfig contains the hosted model endpoint configuration.
type APIConfig struct {
	// Key is the API key. Prefer the NEERAI_API_KEY or GEMINI_API_KEY
	// environment variables over storing it here.
	Key string `toml:"key"`
	// BaseURL is the API base URL
	BaseURL string `toml:"base_url"`
	// Model is the model to query
	Model string `toml:"model"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries for transient failures
	MaxRetries int `toml:"max_retries"`
}

// AuthConfig contains the login gate configuration.
type AuthConfig struct {
	// Enabled requires a login before the chat opens
	Enabled bool `toml:"enabled"`
	// Mode selects the authenticator: "local" (credentials file) or
	// "federated" (external sign-in gated by an email allow list)
	Mode string `toml:"mode"`
	// CredentialsPath is the credentials file (empty = ~/.neerai/credentials.toml)
	CredentialsPath string `toml:"credentials_path"`
	// RequireTOTP additionally requires a one-time code for admin accounts
	RequireTOTP bool `toml:"require_totp"`
	// MaxAttemptsPerMinute throttles login attempts per username
	MaxAttemptsPerMinute int `toml:"max_attempts_per_minute"`
	// AllowedEmails lists the emails granted access in federated mode
	AllowedEmails []string `toml:"allowed_emails"`
}

// HistoryConfig contains conversation history configuration.
type HistoryConfig struct {
	// Enabled persists conversations across runs
	Enabled bool `toml:"enabled"`
	// Path is the history database file (empty = ~/.neerai/history.db)
	Path string `toml:"path"`
	// MaxConversations caps how many conversations are kept; oldest
	// are pruned first (0 = unlimited)
	MaxConversations int `toml:"max_conversations"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowSuggestions displays follow-up suggestion chips
	ShowSuggestions bool `toml:"show_suggestions"`
	// ShowCharts renders inline groundwater trend charts
	ShowCharts bool `toml:"show_charts"`
	// ChartHeight is the height of inline charts in rows
	ChartHeight int `toml:"chart_height"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Path is the log file (empty = ~/.neerai/neerai.log)
	Path string `toml:"path"`
	// Level is the minimum level: "debug", "info", "warn", "error"
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version:  "1.0.0",
		Language: "English",

		API: APIConfig{
			BaseURL:     "https://generativelanguage.googleapis.com",
			Model:       "gemini-2.5-flash",
			TimeoutSecs: 60,
			MaxRetries:  3,
		},

		Auth: AuthConfig{
			Enabled:              false,
			Mode:                 "local",
			RequireTOTP:          false,
			MaxAttemptsPerMinute: 5,
		},

		History: HistoryConfig{
			Enabled:          true,
			MaxConversations: 200,
		},

		UI: UIConfig{
			Theme:           "dark",
			ShowSuggestions: true,
			ShowCharts:      true,
			ChartHeight:     10,
			CompactMode:     false,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the neerai configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".neerai"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
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

// Load loads configuration from the default config file, falling back
// to defaults if the file does not exist. Environment overrides are
// applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := decodeTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decodeTOML decodes a TOML file into cfg.
// SECURITY: Checks and fixes file permissions on load.
func decodeTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Language == "" {
		c.Language = defaults.Language
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Model == "" {
		c.API.Model = defaults.API.Model
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = defaults.API.MaxRetries
	}

	if c.Auth.Mode == "" {
		c.Auth.Mode = defaults.Auth.Mode
	}
	if c.Auth.MaxAttemptsPerMinute == 0 {
		c.Auth.MaxAttemptsPerMinute = defaults.Auth.MaxAttemptsPerMinute
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ChartHeight == 0 {
		c.UI.ChartHeight = defaults.UI.ChartHeight
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. NEERAI_API_KEY wins over GEMINI_API_KEY.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NEERAI_API_KEY"); v != "" {
		c.API.Key = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("NEERAI_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("NEERAI_MODEL"); v != "" {
		c.API.Model = v
	}
	if v := os.Getenv("NEERAI_LANGUAGE"); v != "" {
		c.Language = v
	}
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
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must start with http:// or https://", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: "must not be negative",
		})
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "api.max_retries",
			Message: "must be between 0 and 10",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.ChartHeight < 3 || c.UI.ChartHeight > 40 {
		errs = append(errs, ValidationError{
			Field:   "ui.chart_height",
			Message: "must be between 3 and 40",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if c.Auth.MaxAttemptsPerMinute < 1 {
		errs = append(errs, ValidationError{
			Field:   "auth.max_attempts_per_minute",
			Message: "must be at least 1",
		})
	}

	switch c.Auth.Mode {
	case "local":
	case "federated":
		if c.Auth.Enabled && len(c.Auth.AllowedEmails) == 0 {
			errs = append(errs, ValidationError{
				Field:   "auth.allowed_emails",
				Message: "must list at least one email in federated mode",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "auth.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be 'local' or 'federated'", c.Auth.Mode),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# neerai configuration file")
	fmt.Fprintln(file, "# Generated by neerai - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// CredentialsPath resolves the credentials file location.
func (c *Config) CredentialsPath() (string, error) {
	if c.Auth.CredentialsPath != "" {
		return c.Auth.CredentialsPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.toml"), nil
}

// HistoryPath resolves the history database location.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath resolves the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "neerai.log"), nil
}

// APITimeout returns the per-request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}
