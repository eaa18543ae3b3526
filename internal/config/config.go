package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appDir     = ".grind"
	configFile = "config.yaml"
	envPrefix  = "GRIND"

	DefaultDBFile   = "grind.db"
	DefaultLogFile  = "grind.log"
	DefaultLogLevel = "info"

	DefaultPlannedMinutes = 30
)

// Config holds user settings
type Config struct {
	DataDir       string `mapstructure:"data_dir"`
	DBFile        string `mapstructure:"db_file"`
	LogFile       string `mapstructure:"log_file"`
	LogLevel      string `mapstructure:"log_level"`
	Notifications bool   `mapstructure:"notifications"`
	Sound         bool   `mapstructure:"sound"`
	ExportDir     string `mapstructure:"export_dir"`

	DefaultPlannedMinutes int `mapstructure:"default_planned_minutes"`
}

// DefaultDataDir returns ~/.grind
func DefaultDataDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, appDir)
}

// DefaultPath returns the path of the global config file
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), configFile)
}

// Load reads defaults, then the config file, then GRIND_* environment overrides.
// An empty path means DefaultPath; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("db_file", DefaultDBFile)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("notifications", true)
	v.SetDefault("sound", true)
	v.SetDefault("export_dir", ".")
	v.SetDefault("default_planned_minutes", DefaultPlannedMinutes)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	if cfg.DefaultPlannedMinutes <= 0 {
		cfg.DefaultPlannedMinutes = DefaultPlannedMinutes
	}
	return cfg, nil
}

// DBPath returns the SQLite file location
func (c *Config) DBPath() string {
	return c.resolve(c.DBFile)
}

// LogPath returns the log file location
func (c *Config) LogPath() string {
	return c.resolve(c.LogFile)
}

func (c *Config) resolve(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
