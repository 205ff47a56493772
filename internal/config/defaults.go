package config

const (
	defaultOutputDir      = "~/exports"
	defaultLogDir         = "~/.local/share/framecast/logs"
	defaultHistoryDB      = "~/.local/share/framecast/history.db"
	defaultExportWidth    = 600
	defaultExportHeight   = 400
	defaultExportFPS      = 2
	defaultExportQuality  = 10
	defaultExportFilename = "export"
	defaultFFmpegBinary   = "ffmpeg"
	defaultPreferredCodec = "libvpx-vp9"
	defaultFallbackCodec  = "libvpx"
	defaultProbeTimeout   = 10
	defaultVideoBitrate   = "1M"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Export: Export{
			Width:    defaultExportWidth,
			Height:   defaultExportHeight,
			FPS:      defaultExportFPS,
			Quality:  defaultExportQuality,
			Filename: defaultExportFilename,
		},
		Video: Video{
			FFmpegBinary:   defaultFFmpegBinary,
			PreferredCodec: defaultPreferredCodec,
			FallbackCodec:  defaultFallbackCodec,
			ProbeTimeout:   defaultProbeTimeout,
			Bitrate:        defaultVideoBitrate,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
