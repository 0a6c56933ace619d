package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/tessro/kodictl/internal/errors"
)

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Kodi.Host = "192.168.1.65"
	cfg.Echonest.APIKey = "KEY"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Kodi.Host != "192.168.1.65" || got.Echonest.APIKey != "KEY" {
		t.Errorf("loaded host/key = %q/%q", got.Kodi.Host, got.Echonest.APIKey)
	}
}

func TestSetKeepsOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[kodi]\nhost = \"kodi.local\"\n\n[echonest]\napi_key = \"KEY\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Set(path, "kodi.port", "8080"); err != nil {
		t.Fatalf("Set(kodi.port) error = %v", err)
	}
	if err := Set(path, "tail.auto_skip", "true"); err != nil {
		t.Fatalf("Set(tail.auto_skip) error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Kodi.Host != "kodi.local" {
		t.Errorf("Kodi.Host = %q, want kodi.local", cfg.Kodi.Host)
	}
	if cfg.Kodi.Port != 8080 {
		t.Errorf("Kodi.Port = %d, want 8080", cfg.Kodi.Port)
	}
	if !cfg.Tail.AutoSkip {
		t.Error("Tail.AutoSkip = false, want true")
	}
	if cfg.Echonest.APIKey != "KEY" {
		t.Errorf("Echonest.APIKey = %q, want KEY", cfg.Echonest.APIKey)
	}
}

func TestSetCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Set(path, "kodi.host", "10.0.0.2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `host = "10.0.0.2"`) {
		t.Errorf("file = %q, want host entry", data)
	}
}

func TestSetRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "kodi.nope", "x"},
		{"not an integer", "kodi.port", "ninety"},
		{"not a bool", "tail.auto_skip", "sometimes"},
		{"fails validation", "kodi.transport", "carrier-pigeon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Set(path, tt.key, tt.value); err == nil {
				t.Fatalf("Set(%s, %s) succeeded", tt.key, tt.value)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("rejected value should not create the file")
			}
		})
	}

	err := Set(path, "kodi.nope", "x")
	if !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
	if kerrors.GetSuggestion(err) == "" {
		t.Error("unknown key error should carry a suggestion")
	}
}
