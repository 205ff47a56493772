package config

import "strings"

// normalize trims string fields, fills empty values from defaults, and
// expands every path field. Runs before Validate so validation only sees
// canonical values.
func (c *Config) normalize() error {
	defaults := Default()

	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	c.Paths.HistoryDB = strings.TrimSpace(c.Paths.HistoryDB)
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaults.Paths.OutputDir
	}
	if c.Paths.LogDir == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}
	if c.Paths.HistoryDB == "" {
		c.Paths.HistoryDB = defaults.Paths.HistoryDB
	}

	for _, field := range []*string{&c.Paths.OutputDir, &c.Paths.LogDir, &c.Paths.HistoryDB} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if c.Export.Width == 0 {
		c.Export.Width = defaults.Export.Width
	}
	if c.Export.Height == 0 {
		c.Export.Height = defaults.Export.Height
	}
	if c.Export.FPS == 0 {
		c.Export.FPS = defaults.Export.FPS
	}
	if c.Export.Quality == 0 {
		c.Export.Quality = defaults.Export.Quality
	}
	c.Export.Filename = strings.TrimSpace(c.Export.Filename)
	if c.Export.Filename == "" {
		c.Export.Filename = defaults.Export.Filename
	}

	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	if c.Video.FFmpegBinary == "" {
		c.Video.FFmpegBinary = defaults.Video.FFmpegBinary
	}
	c.Video.PreferredCodec = strings.TrimSpace(c.Video.PreferredCodec)
	if c.Video.PreferredCodec == "" {
		c.Video.PreferredCodec = defaults.Video.PreferredCodec
	}
	c.Video.FallbackCodec = strings.TrimSpace(c.Video.FallbackCodec)
	if c.Video.FallbackCodec == "" {
		c.Video.FallbackCodec = defaults.Video.FallbackCodec
	}
	if c.Video.ProbeTimeout == 0 {
		c.Video.ProbeTimeout = defaults.Video.ProbeTimeout
	}
	c.Video.Bitrate = strings.TrimSpace(c.Video.Bitrate)
	if c.Video.Bitrate == "" {
		c.Video.Bitrate = defaults.Video.Bitrate
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	return nil
}
