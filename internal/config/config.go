// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for ollamachat.
//
// Configuration sources, in order of precedence:
//   - Environment variables (OLLAMACHAT_*)
//   - ~/.ollamachat/config.toml
//   - Built-in defaults
//
// The config file is optional and never written by the application.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ollamachat configuration.
type Config struct {
	// DefaultModel is the model used when none is given on the command line
	DefaultModel string `toml:"default_model"`

	// SystemPrompt seeds every new session
	SystemPrompt string `toml:"system_prompt"`

	// Streaming controls whether replies arrive incrementally
	Streaming bool `toml:"streaming"`

	// Server contains Ollama server settings
	Server ServerConfig `toml:"server"`

	// UI contains terminal output settings
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains Ollama server connection settings.
type ServerConfig struct {
	// URL is the base URL of the Ollama server
	URL string `toml:"url"`
	// HealthTimeoutSecs bounds connectivity checks
	HealthTimeoutSecs int `toml:"health_timeout_secs"`
	// ListTimeoutSecs bounds model listing
	ListTimeoutSecs int `toml:"list_timeout_secs"`
	// ChatTimeoutSecs bounds a full chat exchange
	ChatTimeoutSecs int `toml:"chat_timeout_secs"`
}

// UIConfig contains terminal output settings.
type UIConfig struct {
	// Markdown renders assistant replies as markdown on a TTY
	Markdown bool `toml:"markdown"`
	// TypingDelayMs is the base per-character delay for the typing effect.
	// Zero disables the effect.
	TypingDelayMs int `toml:"typing_delay_ms"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		DefaultModel: "llama3.2",
		SystemPrompt: "",
		Streaming:    true,

		Server: ServerConfig{
			URL:               "http://localhost:11434",
			HealthTimeoutSecs: 5,
			ListTimeoutSecs:   10,
			ChatTimeoutSecs:   60,
		},

		UI: UIConfig{
			Markdown:      true,
			TypingDelayMs: 15,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the ollamachat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ollamachat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file if present, otherwise
// defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.DefaultModel == "" {
		c.DefaultModel = defaults.DefaultModel
	}
	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.HealthTimeoutSecs == 0 {
		c.Server.HealthTimeoutSecs = defaults.Server.HealthTimeoutSecs
	}
	if c.Server.ListTimeoutSecs == 0 {
		c.Server.ListTimeoutSecs = defaults.Server.ListTimeoutSecs
	}
	if c.Server.ChatTimeoutSecs == 0 {
		c.Server.ChatTimeoutSecs = defaults.Server.ChatTimeoutSecs
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

	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Server.URL),
			})
		}
	}

	if c.Server.HealthTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.health_timeout_secs",
			Message: "must be non-negative",
		})
	}
	if c.Server.ListTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.list_timeout_secs",
			Message: "must be non-negative",
		})
	}
	if c.Server.ChatTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.chat_timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.UI.TypingDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.typing_delay_ms",
			Message: "must be non-negative",
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

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - OLLAMACHAT_MODEL: overrides default_model
//   - OLLAMACHAT_URL: overrides server.url
//   - OLLAMACHAT_NO_STREAM: set to "1" or "true" to disable streaming
//   - OLLAMACHAT_SYSTEM_PROMPT: overrides system_prompt
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("OLLAMACHAT_MODEL"); model != "" {
		c.DefaultModel = model
	}

	if serverURL := os.Getenv("OLLAMACHAT_URL"); serverURL != "" {
		c.Server.URL = serverURL
	}

	if noStream := os.Getenv("OLLAMACHAT_NO_STREAM"); noStream != "" {
		if noStream == "1" || strings.ToLower(noStream) == "true" {
			c.Streaming = false
		}
	}

	if prompt := os.Getenv("OLLAMACHAT_SYSTEM_PROMPT"); prompt != "" {
		c.SystemPrompt = prompt
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
