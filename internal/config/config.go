package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.kodictlrc, $XDG_CONFIG_HOME/kodictl/config.toml, ~/.config/kodictl/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

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

// LoadDefaults returns the defaults with environment overrides, for when
// the named config file does not exist yet.
func LoadDefaults() *Config {
	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg
}

// Path returns the config file in use, or the default location for a new one.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kodictlrc"
	}
	return filepath.Join(home, ".kodictlrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".kodictlrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "kodictl", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Kodi
	if v := os.Getenv("KODICTL_KODI_HOST"); v != "" {
		cfg.Kodi.Host = v
	}
	if v := os.Getenv("KODICTL_KODI_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Kodi.Port = i
		}
	}
	if v := os.Getenv("KODICTL_KODI_TRANSPORT"); v != "" {
		cfg.Kodi.Transport = v
	}
	if v := os.Getenv("KODICTL_KODI_USER"); v != "" {
		cfg.Kodi.User = v
	}
	if v := os.Getenv("KODICTL_KODI_PASSWORD"); v != "" {
		cfg.Kodi.Password = v
	}

	// Echonest
	if v := os.Getenv("KODICTL_ECHONEST_API_KEY"); v != "" {
		cfg.Echonest.APIKey = v
	}
	if v := os.Getenv("KODICTL_ECHONEST_BASE_URL"); v != "" {
		cfg.Echonest.BaseURL = v
	}

	// Library
	if v := os.Getenv("KODICTL_LIBRARY_DIR"); v != "" {
		cfg.Library.Dir = v
	}
	if v := os.Getenv("KODICTL_LIBRARY_BACKEND"); v != "" {
		cfg.Library.Backend = v
	}
	if v := os.Getenv("KODICTL_LIBRARY_MAX_RETRIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Library.MaxRetries = i
		}
	}

	// Log
	if v := os.Getenv("KODICTL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KODICTL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("KODICTL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
