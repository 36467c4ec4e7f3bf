package logger

import "os"

type Config struct {
	Level      Level  `json:"level"       yaml:"level"`
	Format     string `json:"format"      yaml:"format"` // json, text, console
	Output     string `json:"output"      yaml:"output"` // stdout, stderr, file
	FilePath   string `json:"file_path"   yaml:"file_path"`
	MaxSize    int    `json:"max_size"    yaml:"max_size"` // MB
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAge     int    `json:"max_age"     yaml:"max_age"` // days
	Compress   bool   `json:"compress"    yaml:"compress"`

	// Static fields attached to every entry.
	Fields map[string]string `json:"fields" yaml:"fields"`
}

func NewDefaultConfig() *Config {
	hostname, _ := os.Hostname()

	fields := map[string]string{
		"hostname": hostname,
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		fields["environment"] = env
	}

	return &Config{
		Level:      LevelInfo,
		Format:     "console",
		Output:     "stdout",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
		Fields:     fields,
	}
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}
