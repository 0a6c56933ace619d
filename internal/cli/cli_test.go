package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/kodictl/internal/config"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

// run executes the root command against a private config file and returns
// what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() {
		stdout = os.Stdout
		jsonOut = false
		verbosity = 0
		command = ""
		cfgFile = ""
	})

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVolumeTarget(t *testing.T) {
	tests := []struct {
		name    string
		current int
		args    []string
		up      bool
		down    bool
		want    int
		wantErr bool
	}{
		{"absolute", 40, []string{"75"}, false, false, 75, false},
		{"up", 40, nil, true, false, 50, false},
		{"up clamps", 95, nil, true, false, 100, false},
		{"down clamps", 4, nil, false, true, 0, false},
		{"out of range", 40, []string{"101"}, false, false, 0, true},
		{"not a number", 40, []string{"loud"}, false, false, 0, true},
		{"level and step", 40, []string{"50"}, true, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := volumeTarget(tt.current, tt.args, tt.up, tt.down)
			if tt.wantErr {
				if !errors.Is(err, kerrors.ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("volumeTarget() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("volumeTarget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigInitSetShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kodictl.toml")

	out, err := run(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, "Created config file") {
		t.Errorf("init output = %q", out)
	}

	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite an existing file")
	}

	if _, err := run(t, "--config", path, "config", "set", "kodi.host", "192.168.1.65"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if _, err := run(t, "--config", path, "config", "set", "echonest.api_key", "SECRET"); err != nil {
		t.Fatalf("config set error = %v", err)
	}

	out, err = run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, `host = "192.168.1.65"`) {
		t.Errorf("show output missing host:\n%s", out)
	}
	if strings.Contains(out, "SECRET") {
		t.Errorf("show output leaks the API key:\n%s", out)
	}
}

func TestConfigSetUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kodictl.toml")
	if err := config.Save(path, config.Default()); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "--config", path, "config", "set", "kodi.colour", "blue")
	if !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestVersionJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kodictl.toml")
	if err := config.Save(path, config.Default()); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "--json", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, `"version": "dev"`) {
		t.Errorf("output = %s", out)
	}
}

func TestMissingHostSuggestsParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kodictl.toml")
	if err := config.Save(path, config.Default()); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KODICTL_KODI_HOST", "")

	_, err := run(t, "--config", path, "stop")
	if !errors.Is(err, kerrors.ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
	if !strings.Contains(kerrors.GetSuggestion(err), "kodictl params") {
		t.Errorf("suggestion = %q", kerrors.GetSuggestion(err))
	}
}
