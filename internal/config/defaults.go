package config

const (
	defaultConfigPath       = "~/.config/alacify/config.toml"
	projectConfigName       = "alacify.toml"
	defaultSourceFormat     = "flac"
	defaultTargetFormat     = "alac"
	defaultJobs             = 4
	defaultOverwrite        = "skip"
	defaultFFmpegBinary     = "ffmpeg"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30

	// FFmpegEnv overrides tools.ffmpeg when the config file leaves it unset.
	FFmpegEnv = "ALACIFY_FFMPEG"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Conversion: Conversion{
			SourceFormat:  defaultSourceFormat,
			TargetFormat:  defaultTargetFormat,
			Jobs:          defaultJobs,
			Overwrite:     defaultOverwrite,
			RemovePartial: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
