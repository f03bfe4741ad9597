package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	CleanSpeakURL         string        `mapstructure:"cleanspeak_url"`
	CleanSpeakAPIKey      string        `mapstructure:"cleanspeak_api_key"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	ItemsFile      string `mapstructure:"items_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	BackupDir               string        `mapstructure:"backup_dir"`
	CatalogType             string        `mapstructure:"catalog_type"`
	CatalogPath             string        `mapstructure:"catalog_path"`
	CatalogRetentionSeconds int64         `mapstructure:"catalog_retention_seconds"`
	CatalogRetention        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "cleanspeak-go-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("cleanspeak_url", "")
	v.SetDefault("cleanspeak_api_key", "")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("items_file", "./configs/items.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("backup_dir", "./data/backups")
	v.SetDefault("catalog_type", "bbolt")
	v.SetDefault("catalog_path", "./data/catalog.db")
	v.SetDefault("catalog_retention_seconds", int64((30*24*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CleanSpeakURL = strings.TrimSpace(cfg.CleanSpeakURL)
	cfg.CleanSpeakAPIKey = strings.TrimSpace(cfg.CleanSpeakAPIKey)
	if cfg.CleanSpeakURL == "" {
		return nil, fmt.Errorf("cleanspeak_url is required")
	}
	if cfg.CleanSpeakAPIKey == "" {
		return nil, fmt.Errorf("cleanspeak_api_key is required")
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.CatalogRetentionSeconds <= 0 {
		return nil, fmt.Errorf("invalid catalog_retention_seconds (must be positive seconds)")
	}
	cfg.CatalogRetention = time.Duration(cfg.CatalogRetentionSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.CleanSpeakAPIKey != "" {
		c.CleanSpeakAPIKey = "<redacted>"
	}
	return c
}
