// Package config resolves sprintboard settings from defaults, an optional
// .sprintboard/config.yaml, and SPRINTBOARD_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // fixed civil zones must resolve on hosts without zoneinfo

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Modification log backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DirName is the per-project configuration directory.
const DirName = ".sprintboard"

// Config is the resolved sprintboard configuration.
type Config struct {
	Tickets     TicketsConfig `mapstructure:"tickets"`
	Log         LogConfig     `mapstructure:"log"`
	Serve       ServeConfig   `mapstructure:"serve"`
	Timezone    string        `mapstructure:"timezone"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	LogLevel    string        `mapstructure:"log_level"`
	Actor       string        `mapstructure:"actor"`

	// File is the config file that was read, empty when only defaults and env applied.
	File string `mapstructure:"-"`
}

// TicketsConfig locates the ticket table.
type TicketsConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig locates the modification log.
type LogConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	Backend    string `mapstructure:"backend" yaml:"backend"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// ServeConfig configures the HTTP dashboard.
type ServeConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
}

// NewViper returns a viper instance with defaults and environment binding.
// Environment variables take precedence over the config file,
// e.g. SPRINTBOARD_TICKETS_PATH, SPRINTBOARD_LOG_BACKEND.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SPRINTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("tickets.path", "organizacao_chamados.csv")
	v.SetDefault("log.path", "ultima_atualizacao.txt")
	v.SetDefault("log.backend", BackendFile)
	v.SetDefault("log.sqlite_path", filepath.Join(DirName, "sprintboard.db"))
	v.SetDefault("serve.addr", ":8501")
	v.SetDefault("serve.chart_width", 960)
	v.SetDefault("serve.chart_height", 480)
	v.SetDefault("timezone", "America/Sao_Paulo")
	v.SetDefault("lock_timeout", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("actor", "")

	return v
}

// FindConfigFile walks up from dir looking for .sprintboard/config.yaml.
// Returns "" when none is found.
func FindConfigFile(dir string) string {
	for d := dir; ; d = filepath.Dir(d) {
		path := filepath.Join(d, DirName, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		if d == filepath.Dir(d) {
			return ""
		}
	}
}

// Load reads the config file found from dir (if any) into v and decodes the result.
func Load(v *viper.Viper, dir string) (*Config, error) {
	file := FindConfigFile(dir)
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Tickets.Path == "" {
		return fmt.Errorf("tickets.path must be set")
	}
	switch c.Log.Backend {
	case BackendFile:
		if c.Log.Path == "" {
			return fmt.Errorf("log.path must be set for the file backend")
		}
	case BackendSQLite:
		if c.Log.SQLitePath == "" {
			return fmt.Errorf("log.sqlite_path must be set for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown log.backend %q (expected %s or %s)", c.Log.Backend, BackendFile, BackendSQLite)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the zone modification stamps are written in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level returns the slog level named by log_level, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LockPath returns the advisory lock file guarding saves of the ticket file.
func (c *Config) LockPath() string {
	return c.Tickets.Path + ".lock"
}

// fileConfig is the on-disk shape written by Save.
type fileConfig struct {
	Tickets     TicketsConfig `yaml:"tickets"`
	Log         LogConfig     `yaml:"log"`
	Serve       ServeConfig   `yaml:"serve"`
	Timezone    string        `yaml:"timezone"`
	LockTimeout string        `yaml:"lock_timeout"`
	LogLevel    string        `yaml:"log_level"`
	Actor       string        `yaml:"actor,omitempty"`
}

// Save writes cfg to dir/.sprintboard/config.yaml and returns the path.
func Save(dir string, cfg *Config) (string, error) {
	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := yaml.Marshal(fileConfig{
		Tickets:     cfg.Tickets,
		Log:         cfg.Log,
		Serve:       cfg.Serve,
		Timezone:    cfg.Timezone,
		LockTimeout: cfg.LockTimeout.String(),
		LogLevel:    cfg.LogLevel,
		Actor:       cfg.Actor,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return path, nil
}
