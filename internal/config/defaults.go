package config

import (
	"os"
	"path/filepath"
)

// Transports supported by the Kodi client.
const (
	TransportTCP       = "tcp"
	TransportHTTP      = "http"
	TransportWebSocket = "ws"
)

// Snapshot store backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Kodi: KodiConfig{
			Port:      9090,
			Transport: TransportTCP,
			Timeout:   10,
		},
		Echonest: EchonestConfig{
			BaseURL:         "http://developer.echonest.com/api/v4",
			ProfileName:     "Kodi library",
			BatchSize:       30,
			BatchIntervalMS: 510,
			RatingScale:     2,
		},
		Library: LibraryConfig{
			Dir:            defaultLibraryDir(),
			Backend:        BackendFile,
			SongsPageSize:  20,
			AlbumsPageSize: 10,
			MaxRetries:     50,
			RetryInitialMS: 100,
			RetryMaxMS:     5000,
		},
		Display: DisplayConfig{
			PageLines: 10,
			Theme:     "auto",
		},
		Tail: TailConfig{
			Interval: 1000,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Kodi
	if c.Kodi.Port == 0 {
		c.Kodi.Port = d.Kodi.Port
	}
	if c.Kodi.Transport == "" {
		c.Kodi.Transport = d.Kodi.Transport
	}
	if c.Kodi.Timeout == 0 {
		c.Kodi.Timeout = d.Kodi.Timeout
	}

	// Echonest
	if c.Echonest.BaseURL == "" {
		c.Echonest.BaseURL = d.Echonest.BaseURL
	}
	if c.Echonest.ProfileName == "" {
		c.Echonest.ProfileName = d.Echonest.ProfileName
	}
	if c.Echonest.BatchSize == 0 {
		c.Echonest.BatchSize = d.Echonest.BatchSize
	}
	if c.Echonest.BatchIntervalMS == 0 {
		c.Echonest.BatchIntervalMS = d.Echonest.BatchIntervalMS
	}
	if c.Echonest.RatingScale == 0 {
		c.Echonest.RatingScale = d.Echonest.RatingScale
	}

	// Library
	if c.Library.Dir == "" {
		c.Library.Dir = d.Library.Dir
	}
	if c.Library.Backend == "" {
		c.Library.Backend = d.Library.Backend
	}
	if c.Library.SongsPageSize == 0 {
		c.Library.SongsPageSize = d.Library.SongsPageSize
	}
	if c.Library.AlbumsPageSize == 0 {
		c.Library.AlbumsPageSize = d.Library.AlbumsPageSize
	}
	if c.Library.MaxRetries == 0 {
		c.Library.MaxRetries = d.Library.MaxRetries
	}
	if c.Library.RetryInitialMS == 0 {
		c.Library.RetryInitialMS = d.Library.RetryInitialMS
	}
	if c.Library.RetryMaxMS == 0 {
		c.Library.RetryMaxMS = d.Library.RetryMaxMS
	}

	// Display
	if c.Display.PageLines == 0 {
		c.Display.PageLines = d.Display.PageLines
	}
	if c.Display.Theme == "" {
		c.Display.Theme = d.Display.Theme
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// defaultLibraryDir returns the directory holding the library snapshot.
func defaultLibraryDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "kodictl")
	}
	return ".kodictl"
}
