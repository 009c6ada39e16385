package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum console level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the console encoding (console, json).
	Format string `mapstructure:"format" default:"console"`
	// File is an optional path for a rotating debug-level log file.
	File string `mapstructure:"file" default:""`
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" default:"10"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"max_backups" default:"3"`
}
