package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	kerrors "github.com/tessro/kodictl/internal/errors"
)

const header = "# kodictl configuration\n\n"

var intKeys = map[string]bool{
	"kodi.port":                  true,
	"kodi.timeout":               true,
	"echonest.batch_size":        true,
	"echonest.batch_interval_ms": true,
	"echonest.rating_scale":      true,
	"library.songs_page_size":    true,
	"library.albums_page_size":   true,
	"library.max_retries":        true,
	"library.retry_initial_ms":   true,
	"library.retry_max_ms":       true,
	"display.page_lines":         true,
	"tail.interval":              true,
}

var boolKeys = map[string]bool{
	"tail.auto_skip": true,
}

var stringKeys = map[string]bool{
	"kodi.host":             true,
	"kodi.transport":        true,
	"kodi.user":             true,
	"kodi.password":         true,
	"echonest.api_key":      true,
	"echonest.base_url":     true,
	"echonest.profile_name": true,
	"library.dir":           true,
	"library.backend":       true,
	"display.theme":         true,
	"log.level":             true,
	"log.format":            true,
	"log.file":              true,
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	buf.WriteString(header)
	enc := toml.NewEncoder(&buf)
	enc.Indent = "  "
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return write(path, buf.Bytes())
}

// Set changes one "section.key" entry of the file at path, leaving every
// other entry as written. The result must still validate.
func Set(path, key, value string) error {
	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	raw := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	section, field, _ := strings.Cut(key, ".")
	table, ok := raw[section].(map[string]any)
	if !ok {
		table = map[string]any{}
		raw[section] = table
	}
	table[field] = typed

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := toml.NewEncoder(&buf)
	enc.Indent = "  "
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	var check Config
	if _, err := toml.Decode(buf.String(), &check); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return err
	}
	return write(path, buf.Bytes())
}

// Keys lists every key Set accepts.
func Keys() []string {
	var keys []string
	for _, m := range []map[string]bool{stringKeys, intKeys, boolKeys} {
		for k := range m {
			keys = append(keys, k)
		}
	}
	return keys
}

func parseValue(key, value string) (any, error) {
	switch {
	case intKeys[key]:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", kerrors.ErrInvalidConfig, key, value)
		}
		// TOML integers decode as int64.
		return int64(n), nil
	case boolKeys[key]:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false, got %q", kerrors.ErrInvalidConfig, key, value)
		}
		return b, nil
	case stringKeys[key]:
		return value, nil
	default:
		return nil, kerrors.WithSuggestion(
			fmt.Errorf("%w: unknown key %q", kerrors.ErrInvalidConfig, key),
			"Run 'kodictl config set --help' for the list of keys",
		)
	}
}

func write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// The file may hold the Kodi password and the API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
