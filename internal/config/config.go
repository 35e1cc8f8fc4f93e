package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the tool configuration. Command-line flags take precedence
// over values loaded here.
type Config struct {
	Retention RetentionConfig `mapstructure:"retention"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// RetentionConfig holds the default keep counts per tier.
// 0 disables a tier.
type RetentionConfig struct {
	Daily   int `mapstructure:"daily"`
	Weekly  int `mapstructure:"weekly"`
	Monthly int `mapstructure:"monthly"`
	Yearly  int `mapstructure:"yearly"`
}

// HistoryConfig controls the prune run history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig controls the optional log file. Console output is
// always on and governed by the verbosity flag.
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// Load reads the configuration from prunekit.toml (searched in the
// working directory, the user config directory, and the home
// directory), overridden by PRUNEKIT_* environment variables. A missing
// config file is not an error. cfgFile forces a specific file.
func Load(cfgFile string) (*Config, error) {
	// A .env alongside the tool is honored before viper reads the
	// environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("retention.daily", 14)
	v.SetDefault("retention.weekly", 6)
	v.SetDefault("retention.monthly", 6)
	v.SetDefault("retention.yearly", 6)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", defaultHistoryPath())
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 30)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("prunekit")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userConfigDir, "prunekit"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(homeDir)
		}
	}

	v.SetEnvPrefix("PRUNEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Retention.Daily < 0 || c.Retention.Weekly < 0 ||
		c.Retention.Monthly < 0 || c.Retention.Yearly < 0 {
		return fmt.Errorf("retention capacities cannot be negative")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

func defaultHistoryPath() string {
	if dataDir := os.Getenv("XDG_DATA_HOME"); dataDir != "" {
		return filepath.Join(dataDir, "prunekit", "history.db")
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share", "prunekit", "history.db")
	}
	return filepath.Join(".", "prunekit-history.db")
}
