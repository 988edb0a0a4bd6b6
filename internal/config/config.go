// Package config provides configuration management for the trading diary.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Journal   JournalConfig   `mapstructure:"journal"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Goals     GoalsConfig     `mapstructure:"goals"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// JournalConfig locates the trade database.
type JournalConfig struct {
	DBPath string `mapstructure:"db_path"` // relative paths resolve against Dir
}

// AnalyticsConfig holds analytics defaults.
type AnalyticsConfig struct {
	Timezone     string `mapstructure:"timezone"` // IANA name or "Local"
	SimilarLimit int    `mapstructure:"similar_limit"`
	TopSetups    int    `mapstructure:"top_setups"`
	Workers      int    `mapstructure:"workers"` // 0 = one per CPU
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// GoalsConfig locates the monthly goals file.
type GoalsConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trading-diary"
	}
	return filepath.Join(home, ".config", "trading-diary")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("journal.db_path", "journal.db")
	v.SetDefault("analytics.timezone", "Local")
	v.SetDefault("analytics.similar_limit", 5)
	v.SetDefault("analytics.top_setups", 5)
	v.SetDefault("analytics.workers", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join("logs", "diary.log"))
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("goals.path", "goals.yaml")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from a template and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	cfg.Dir = configDir

	// Apply environment variable overrides
	applyEnvOverrides(cfg)
	cfg.resolvePaths()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DIARY_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("DIARY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DIARY_TIMEZONE"); v != "" {
		cfg.Analytics.Timezone = v
	}
}

func (c *Config) resolvePaths() {
	c.Journal.DBPath = c.resolve(c.Journal.DBPath)
	c.Logging.FilePath = c.resolve(c.Logging.FilePath)
	c.Goals.Path = c.resolve(c.Goals.Path)
}

// resolve expands a leading ~ and anchors relative paths at Dir.
func (c *Config) resolve(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir, path)
	}
	return path
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Journal.DBPath) == "" {
		return fmt.Errorf("%w: journal.db_path must be set", apperrors.ErrConfigInvalid)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level: %s (must be debug, info, warn or error)", apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAge < 0 {
		return fmt.Errorf("%w: logging rotation limits must be non-negative", apperrors.ErrConfigInvalid)
	}

	if c.Analytics.SimilarLimit < 0 {
		return fmt.Errorf("%w: similar_limit must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Analytics.TopSetups < 0 {
		return fmt.Errorf("%w: top_setups must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Analytics.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative", apperrors.ErrConfigInvalid)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: invalid timezone %q: %v", apperrors.ErrConfigInvalid, c.Analytics.Timezone, err)
	}

	return nil
}

// Location returns the zone used for timestamps entered without an offset.
func (c *Config) Location() (*time.Location, error) {
	switch c.Analytics.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Analytics.Timezone)
	}
}

// LogConfig converts the logging section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}
