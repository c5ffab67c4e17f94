// Package config loads process configuration: a YAML file overlaid with
// environment variables. Loaded once at startup and treated as read-only
// afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	// DataServiceTarget is the function name the data-service target is
	// registered under on the substrate.
	DataServiceTarget string        `yaml:"data_service_target"`
	InvokeTimeout     time.Duration `yaml:"invoke_timeout"`
	ReadRetries       uint64        `yaml:"read_retries"`
	UserAgent         string        `yaml:"user_agent"`
	Stage             string        `yaml:"stage"`
	RedisAddr         string        `yaml:"redis_addr"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	LogLevel          string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataServiceTarget: "data-service-lambda",
		InvokeTimeout:     30 * time.Second,
		ReadRetries:       2,
		UserAgent:         "storywire",
		Stage:             "prod",
		CacheTTL:          60 * time.Second,
		LogLevel:          "info",
	}
}

// fileConfig mirrors Config with durations spelled as strings ("5s",
// "250ms"), which is how the YAML file writes them. Pointer fields tell
// an unset key apart from a zero value so unset keys keep their defaults.
type fileConfig struct {
	DataServiceTarget *string `yaml:"data_service_target"`
	InvokeTimeout     *string `yaml:"invoke_timeout"`
	ReadRetries       *uint64 `yaml:"read_retries"`
	UserAgent         *string `yaml:"user_agent"`
	Stage             *string `yaml:"stage"`
	RedisAddr         *string `yaml:"redis_addr"`
	CacheTTL          *string `yaml:"cache_ttl"`
	LogLevel          *string `yaml:"log_level"`
}

func (f fileConfig) apply(cfg *Config) error {
	if f.DataServiceTarget != nil {
		cfg.DataServiceTarget = *f.DataServiceTarget
	}
	if f.InvokeTimeout != nil {
		d, err := time.ParseDuration(*f.InvokeTimeout)
		if err != nil {
			return fmt.Errorf("invoke_timeout: %w", err)
		}
		cfg.InvokeTimeout = d
	}
	if f.ReadRetries != nil {
		cfg.ReadRetries = *f.ReadRetries
	}
	if f.UserAgent != nil {
		cfg.UserAgent = *f.UserAgent
	}
	if f.Stage != nil {
		cfg.Stage = *f.Stage
	}
	if f.RedisAddr != nil {
		cfg.RedisAddr = *f.RedisAddr
	}
	if f.CacheTTL != nil {
		d, err := time.ParseDuration(*f.CacheTTL)
		if err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
		cfg.CacheTTL = d
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	return nil
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else {
			var fc fileConfig
			if err := yaml.Unmarshal(content, &fc); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
			if err := fc.apply(&cfg); err != nil {
				return Config{}, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("STORYWIRE_TARGET"); v != "" {
		cfg.DataServiceTarget = v
	}
	if v := os.Getenv("STORYWIRE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: STORYWIRE_TIMEOUT: %w", err)
		}
		cfg.InvokeTimeout = d
	}
	if v := os.Getenv("STORYWIRE_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("STORYWIRE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.InvokeTimeout <= 0 {
		return Config{}, fmt.Errorf("config: invoke_timeout must be positive")
	}
	return cfg, nil
}

// Logger builds a zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}
