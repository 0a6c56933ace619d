package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[kodi]
host = "192.168.1.65"
transport = "http"
user = "kodi"

[echonest]
api_key = "KEY"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Kodi.Host != "192.168.1.65" {
		t.Errorf("Kodi.Host = %q, want %q", cfg.Kodi.Host, "192.168.1.65")
	}
	if cfg.Kodi.Transport != TransportHTTP {
		t.Errorf("Kodi.Transport = %q, want %q", cfg.Kodi.Transport, TransportHTTP)
	}
	if cfg.Kodi.Port != 9090 {
		t.Errorf("Kodi.Port = %d, want 9090", cfg.Kodi.Port)
	}
	if cfg.Echonest.BatchSize != 30 {
		t.Errorf("Echonest.BatchSize = %d, want 30", cfg.Echonest.BatchSize)
	}
	if cfg.Echonest.ProfileName != "Kodi library" {
		t.Errorf("Echonest.ProfileName = %q, want %q", cfg.Echonest.ProfileName, "Kodi library")
	}
	if cfg.Library.SongsPageSize != 20 || cfg.Library.AlbumsPageSize != 10 {
		t.Errorf("page sizes = %d/%d, want 20/10", cfg.Library.SongsPageSize, cfg.Library.AlbumsPageSize)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KODICTL_KODI_HOST", "kodi.local")
	t.Setenv("KODICTL_KODI_PORT", "8080")
	t.Setenv("KODICTL_LIBRARY_MAX_RETRIES", "7")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Kodi.Host != "kodi.local" {
		t.Errorf("Kodi.Host = %q, want %q", cfg.Kodi.Host, "kodi.local")
	}
	if cfg.Kodi.Port != 8080 {
		t.Errorf("Kodi.Port = %d, want 8080", cfg.Kodi.Port)
	}
	if cfg.Library.MaxRetries != 7 {
		t.Errorf("Library.MaxRetries = %d, want 7", cfg.Library.MaxRetries)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad transport", func(c *Config) { c.Kodi.Transport = "udp" }, true},
		{"bad port", func(c *Config) { c.Kodi.Port = 70000 }, true},
		{"bad backend", func(c *Config) { c.Library.Backend = "sqlite" }, true},
		{"negative retries", func(c *Config) { c.Library.MaxRetries = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad theme", func(c *Config) { c.Display.Theme = "neon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
