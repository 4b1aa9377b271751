package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Shopify ShopifyConfig
	Cache   CacheConfig
	Fanout  FanoutConfig
	Source  SourceConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ShopifyConfig holds Storefront API client configuration
type ShopifyConfig struct {
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
}

// CacheConfig holds recommendation cache configuration
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// FanoutConfig bounds the concurrent partner store queries
type FanoutConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// SourceConfig selects where product data comes from
type SourceConfig struct {
	// Offline forces the built-in fixture catalog, useful for demos
	// and local development without storefront tokens.
	Offline bool `mapstructure:"offline"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shoplens/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Shopify defaults
	v.SetDefault("shopify.api_version", "2025-07")
	v.SetDefault("shopify.timeout", "7s")
	v.SetDefault("shopify.retries", 1)

	// Cache defaults
	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("cache.max_entries", 1000)

	// Fan-out defaults
	v.SetDefault("fanout.max_concurrent", 3)

	// Source defaults
	v.SetDefault("source.offline", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Shopify.Timeout <= 0 {
		return fmt.Errorf("shopify timeout must be positive, got: %s", config.Shopify.Timeout)
	}

	if config.Shopify.Retries < 0 {
		return fmt.Errorf("shopify retries cannot be negative, got: %d", config.Shopify.Retries)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max_entries must be positive, got: %d", config.Cache.MaxEntries)
	}

	if config.Fanout.MaxConcurrent <= 0 {
		return fmt.Errorf("fanout max_concurrent must be positive, got: %d", config.Fanout.MaxConcurrent)
	}

	return nil
}
