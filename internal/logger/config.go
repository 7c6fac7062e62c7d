package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/dungeongen.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file
// and applies environment variable overrides.
// A missing or unparsable file leaves the defaults in place.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var loaded LoggingConfig
			if err := yaml.Unmarshal(data, &loaded); err == nil {
				config = merge(config, loaded.Logging)
			}
		}
	}

	applyEnv(&config)
	return config, nil
}

// merge overlays the non-zero values of loaded onto base.
// Booleans are always taken from loaded.
func merge(base, loaded Config) Config {
	if loaded.Level != "" {
		base.Level = loaded.Level
	}
	base.ConsoleEnabled = loaded.ConsoleEnabled
	if loaded.ConsoleFormat != "" {
		base.ConsoleFormat = loaded.ConsoleFormat
	}
	base.FileEnabled = loaded.FileEnabled
	if loaded.FilePath != "" {
		base.FilePath = loaded.FilePath
	}
	if loaded.FileFormat != "" {
		base.FileFormat = loaded.FileFormat
	}
	if loaded.FileMaxSizeMB > 0 {
		base.FileMaxSizeMB = loaded.FileMaxSizeMB
	}
	if loaded.FileMaxBackups > 0 {
		base.FileMaxBackups = loaded.FileMaxBackups
	}
	if loaded.FileMaxAgeDays > 0 {
		base.FileMaxAgeDays = loaded.FileMaxAgeDays
	}
	base.FileCompress = loaded.FileCompress
	return base
}

func applyEnv(config *Config) {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Level = logLevel
	}

	if consoleFormat := os.Getenv("LOG_CONSOLE_FORMAT"); consoleFormat != "" {
		config.ConsoleFormat = consoleFormat
	}

	if fileEnabled := os.Getenv("LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv("LOG_FILE_PATH"); filePath != "" {
		config.FilePath = filePath
	}
}
