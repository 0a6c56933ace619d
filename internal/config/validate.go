package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Kodi.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kodi: %w", err))
	}
	if err := c.Echonest.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("echonest: %w", err))
	}
	if err := c.Library.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("library: %w", err))
	}
	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks KodiConfig for errors.
func (c *KodiConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Transport {
	case "", TransportTCP, TransportHTTP, TransportWebSocket:
		// valid
	default:
		return fmt.Errorf("invalid transport: %s (must be tcp, http, or ws)", c.Transport)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}

// Validate checks EchonestConfig for errors.
func (c *EchonestConfig) Validate() error {
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
	}
	if c.BatchSize < 0 {
		return errors.New("batch_size must be non-negative")
	}
	if c.BatchIntervalMS < 0 {
		return errors.New("batch_interval_ms must be non-negative")
	}
	if c.RatingScale < 0 {
		return errors.New("rating_scale must be non-negative")
	}
	return nil
}

// Validate checks LibraryConfig for errors.
func (c *LibraryConfig) Validate() error {
	switch c.Backend {
	case "", BackendFile, BackendBadger:
		// valid
	default:
		return fmt.Errorf("invalid backend: %s (must be file or badger)", c.Backend)
	}
	if c.SongsPageSize < 0 || c.AlbumsPageSize < 0 {
		return errors.New("page sizes must be non-negative")
	}
	if c.MaxRetries < 0 {
		return errors.New("max_retries must be non-negative")
	}
	if c.RetryInitialMS < 0 || c.RetryMaxMS < 0 {
		return errors.New("retry waits must be non-negative")
	}
	return nil
}

// Validate checks DisplayConfig for errors.
func (c *DisplayConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.PageLines < 0 {
		return errors.New("page_lines must be non-negative")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	switch c.Format {
	case "", "console", "json":
		// valid
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Format)
	}
	return nil
}
