// Package config resolves runtime options from defaults, an optional YAML
// file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sadopc/pomodr/internal/store"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfig   = "POMODR_CONFIG"
	EnvDB       = "POMODR_DB"
	EnvLog      = "POMODR_LOG"
	EnvLogLevel = "POMODR_LOG_LEVEL"
)

// Config holds the runtime options.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db"`

	// LogPath is where JSON logs are written. Empty disables logging.
	LogPath  string `yaml:"log"`
	LogLevel string `yaml:"log_level"`

	// Notifications enables desktop notifications on phase completion.
	Notifications bool `yaml:"notifications"`
	// Sound enables the terminal bell cue.
	Sound bool `yaml:"sound"`

	// ExportDir is where session exports are written.
	ExportDir string `yaml:"export_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:        defaultDBPath(),
		LogLevel:      "info",
		Notifications: true,
		Sound:         true,
		ExportDir:     ".",
	}
}

// DefaultPath returns the config file consulted when none is named.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pomodr", "config.yaml")
}

func defaultDBPath() string {
	path, err := store.DefaultDBPath()
	if err != nil {
		return "pomodr.db"
	}
	return path
}

// Load parses args (without the program name) and returns the merged
// configuration. A missing config file is not an error unless it was named
// explicitly.
func Load(args []string) (*Config, error) {
	return load(args, os.Getenv, os.Stderr)
}

func load(args []string, getenv func(string) string, usage io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("pomodr", flag.ContinueOnError)
	fs.SetOutput(usage)

	var (
		configPath = fs.String("config", "", "path to YAML config file")
		dbPath     = fs.String("db", "", "path to the SQLite database")
		logPath    = fs.String("log", "", "write JSON logs to this file")
		logLevel   = fs.String("log-level", "", "log level (debug, info, warn, error)")
		notify     = fs.Bool("notify", true, "show desktop notifications")
		sound      = fs.Bool("sound", true, "ring the terminal bell")
		exportDir  = fs.String("export-dir", "", "directory for session exports")
	)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := Default()

	path, explicit := *configPath, *configPath != ""
	if !explicit {
		if env := getenv(EnvConfig); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath()
		}
	}
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if v := getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := getenv(EnvLog); v != "" {
		cfg.LogPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if set["db"] {
		cfg.DBPath = *dbPath
	}
	if set["log"] {
		cfg.LogPath = *logPath
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if set["notify"] {
		cfg.Notifications = *notify
	}
	if set["sound"] {
		cfg.Sound = *sound
	}
	if set["export-dir"] {
		cfg.ExportDir = *exportDir
	}

	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// String renders the config for debug logging.
func (c *Config) String() string {
	return "db=" + c.DBPath +
		" log=" + c.LogPath +
		" log_level=" + c.LogLevel +
		" notifications=" + strconv.FormatBool(c.Notifications) +
		" sound=" + strconv.FormatBool(c.Sound) +
		" export_dir=" + c.ExportDir
}
