// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultTaskFile   = "tasks.json"
	DefaultSchemaFile = "tasks.schema.json"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for taskman.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	SchemaFile string `toml:"schema_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Mode flags (not persisted in config files)
	ConfigFile  string `toml:"-"`
	TUI         bool   `toml:"-"`
	ShowVersion bool   `toml:"-"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.config/taskman/taskman.toml or ~/.taskman.toml)
// 3. Project config file (taskman.toml or .taskman.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// An explicit -config <path> replaces the user/project file discovery and
// must be readable.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2.-3. Config files. An explicit -config path wins over discovery and,
	// unlike discovered files, must load. The flag is pre-scanned because
	// file loading has to happen before flag parsing.
	if path := configFlagFromArgs(args); path != "" {
		cfg.ConfigFile = path
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else {
		// Try to load from user config file
		if path := findUserConfigFile(); path != "" {
			if err := loadConfigFile(cfg, path); err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", path, err)
			}
		}

		// Try to load from project config file (overrides user config)
		if path := findProjectConfigFile(); path != "" {
			if err := loadConfigFile(cfg, path); err != nil {
				return nil, fmt.Errorf("loading project config file %s: %w", path, err)
			}
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.SchemaFile = DefaultSchemaFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// findUserConfigFile returns the user-level config file path, or "" if none
// exists. Checks the OS config dir first, then the home dot-file.
func findUserConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "taskman", "taskman.toml")
		if fileExists(path) {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".taskman.toml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// findProjectConfigFile returns the project-level config file path in the
// current directory, or "" if none exists.
func findProjectConfigFile() string {
	for _, name := range []string{"taskman.toml", ".taskman.toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKMAN_FILE"); v != "" {
		cfg.TaskFile = v
	}
	if v := os.Getenv("TASKMAN_SCHEMA"); v != "" {
		cfg.SchemaFile = v
	}
	if v := os.Getenv("TASKMAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKMAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKMAN_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}

// parseFlags registers CLI flags on fs and parses args. Flag defaults come
// from the current config values, so unset flags leave lower-priority
// sources in place.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "path to a TOML config file (replaces config file discovery)")
	fs.StringVar(&cfg.TaskFile, "file", cfg.TaskFile, "path to the task file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "path to the task file JSON Schema")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, logfmt, json)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "include timestamps in log output")
	fs.BoolVar(&cfg.TUI, "tui", false, "open the read-only task dashboard instead of the menu")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	return fs.Parse(args)
}

// configFlagFromArgs extracts the -config value from raw args before flag
// parsing runs. Handles -config path, --config path and the = forms.
func configFlagFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := strings.TrimPrefix(strings.TrimPrefix(args[i], "-"), "-")
		if arg == "config" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if v, ok := strings.CutPrefix(arg, "config="); ok {
			return v
		}
	}
	return ""
}

func boolFromString(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
