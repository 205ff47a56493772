package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Width <= 0 {
		return errors.New("export.width must be positive")
	}
	if c.Export.Height <= 0 {
		return errors.New("export.height must be positive")
	}
	if c.Export.FPS <= 0 {
		return errors.New("export.fps must be positive")
	}
	if c.Export.Quality < 1 || c.Export.Quality > 10 {
		return fmt.Errorf("export.quality must be between 1 and 10, got %d", c.Export.Quality)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.ProbeTimeout <= 0 {
		return errors.New("video.probe_timeout must be positive")
	}
	if c.Video.PreferredCodec == "" && c.Video.FallbackCodec == "" {
		return errors.New("video requires at least one of preferred_codec or fallback_codec")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
