package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string            // default log level for all modules
	Timezone     string            // "Local", "UTC", or IANA timezone name like "Europe/Helsinki"
	Console      ConsoleOutput     // console output configuration
	File         FileOutput        // file output configuration
	ModuleLevels map[string]string // per-module log levels, e.g. {"datastore": "trace"}
}

// ConsoleOutput represents console logging configuration.
// Console output uses human-readable text format.
type ConsoleOutput struct {
	Enabled bool
	Level   string
}

// FileOutput represents file logging configuration.
// File output uses JSON format for machine parsing.
type FileOutput struct {
	Enabled    bool
	Path       string
	Level      string
	MaxSize    int  // megabytes before rotation
	MaxAge     int  // days to keep rotated logs (0 = no limit)
	MaxBackups int  // rotated files to keep (0 = no limit)
	Compress   bool // gzip rotated logs
}

// Default values for logging configuration.
const (
	DefaultLogLevel       = "info"
	DefaultLogPath        = "logs/parkbio.log"
	DefaultMaxSize        = 10
	DefaultMaxAge         = 30
	DefaultMaxBackups     = 5
	DefaultConsoleEnabled = true
	DefaultFileEnabled    = false
)

// applyConfigDefaults fills in empty levels and rotation values.
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg == nil {
		return
	}

	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = DefaultLogLevel
	}
	if cfg.Console.Level == "" {
		cfg.Console.Level = cfg.DefaultLevel
	}
	if cfg.File.Level == "" {
		cfg.File.Level = cfg.DefaultLevel
	}
	if cfg.File.Path == "" {
		cfg.File.Path = DefaultLogPath
	}
	if cfg.File.MaxSize <= 0 {
		cfg.File.MaxSize = DefaultMaxSize
	}
}
