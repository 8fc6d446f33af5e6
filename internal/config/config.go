package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the per-user config file in the home directory.
const FileName = ".tokyoboxrc"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.tokyoboxrc, $XDG_CONFIG_HOME/tokyobox/config.toml, ~/.config/tokyobox/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Write encodes cfg as TOML with a header comment.
func Write(w io.Writer, cfg *Config) error {
	_, _ = fmt.Fprintln(w, "# tokyobox configuration")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

// DefaultPath returns ~/.tokyoboxrc.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// SettingsPath returns the settings file location, falling back to
// the user config directory.
func (c *Config) SettingsPath() (string, error) {
	if c.Settings.Path != "" {
		return c.Settings.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "tokyobox", "settings.json"), nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, FileName),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "tokyobox", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Backend
	if v := os.Getenv("TOKYOBOX_BACKEND_RESOURCE_NAME"); v != "" {
		cfg.Backend.ResourceName = v
	}
	if v := os.Getenv("TOKYOBOX_BACKEND_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("TOKYOBOX_BACKEND_RETRIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Backend.Retries = i
		}
	}

	// Bridge
	if v := os.Getenv("TOKYOBOX_BRIDGE_LISTEN"); v != "" {
		cfg.Bridge.Listen = v
	}
	if v := os.Getenv("TOKYOBOX_BRIDGE_ALLOWED_ORIGINS"); v != "" {
		cfg.Bridge.AllowedOrigins = SplitList(v)
	}

	// Settings
	if v := os.Getenv("TOKYOBOX_SETTINGS_PATH"); v != "" {
		cfg.Settings.Path = v
	}

	// Log
	if v := os.Getenv("TOKYOBOX_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TOKYOBOX_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// SplitList splits a comma-separated value, dropping empty entries.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
