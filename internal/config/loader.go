package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. VALUE_LINES_APP_LOG_LEVEL
const EnvPrefix = "VALUE_LINES"

const defaultConfigPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads and parses the configuration from file and environment variables.
// ${VAR} placeholders in the YAML are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration on top of built-in defaults. A missing
// file is not an error; defaults and environment variables still apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "value-lines")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("engine.target_probability", 0.60)
	v.SetDefault("engine.min_probability", 0.58)
	v.SetDefault("engine.max_probability", 0.62)
	v.SetDefault("engine.decay_factor", 0.9)
	v.SetDefault("engine.weighted_share", 0.6)
	v.SetDefault("engine.min_sample_size", 3)
	v.SetDefault("engine.fields", []string{"corners", "yellow_cards", "shots_total", "shots_on_target"})
	v.SetDefault("engine.confidence.high_min_sample", 8)
	v.SetDefault("engine.confidence.high_max_std_dev", 2.0)
	v.SetDefault("engine.confidence.medium_min_sample", 5)
	v.SetDefault("engine.confidence.medium_max_std_dev", 3.0)

	v.SetDefault("aggregator.detail_concurrency", 4)
	v.SetDefault("aggregator.view_concurrency", 3)
	v.SetDefault("aggregator.match_limit", 10)

	v.SetDefault("provider.base_url", "http://localhost:8081")
	v.SetDefault("provider.timeout_seconds", 10)
	v.SetDefault("provider.requests_per_second", 5)
	v.SetDefault("provider.burst", 5)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.circuit_breaker_threshold", 5)
	v.SetDefault("provider.circuit_breaker_reset_seconds", 60)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 900)
	v.SetDefault("cache.cleanup_interval_seconds", 600)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("storage.persist_predictions", false)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.settlement_schedule", "*/15 * * * *")
	v.SetDefault("scheduler.settlement_batch_size", 100)
	v.SetDefault("scheduler.cache_stats_interval_seconds", 60)
}
