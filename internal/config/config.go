// Package config provides configuration management for the value-lines service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Engine     EngineConfig     `mapstructure:"engine" validate:"required"`
	Aggregator AggregatorConfig `mapstructure:"aggregator" validate:"required"`
	Provider   ProviderConfig   `mapstructure:"provider" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig holds the line search and confidence policy settings
type EngineConfig struct {
	TargetProbability float64          `mapstructure:"target_probability" validate:"required,gt=0.5,lt=1"`
	MinProbability    float64          `mapstructure:"min_probability" validate:"required,gt=0.5,lt=1"`
	MaxProbability    float64          `mapstructure:"max_probability" validate:"required,gt=0.5,lt=1"`
	DecayFactor       float64          `mapstructure:"decay_factor" validate:"required,gt=0,lte=1"`
	WeightedShare     float64          `mapstructure:"weighted_share" validate:"gte=0,lte=1"`
	MinSampleSize     int              `mapstructure:"min_sample_size" validate:"required,gt=0"`
	Fields            []string         `mapstructure:"fields" validate:"required,min=1,dive,statfield"`
	Confidence        ConfidenceConfig `mapstructure:"confidence" validate:"required"`
}

// ConfidenceConfig holds the thresholds behind the high/medium/low labels
type ConfidenceConfig struct {
	HighMinSample   int     `mapstructure:"high_min_sample" validate:"required,gt=0"`
	HighMaxStdDev   float64 `mapstructure:"high_max_std_dev" validate:"required,gt=0"`
	MediumMinSample int     `mapstructure:"medium_min_sample" validate:"required,gt=0"`
	MediumMaxStdDev float64 `mapstructure:"medium_max_std_dev" validate:"required,gt=0"`
}

// AggregatorConfig bounds the per-match fetch fan-out
type AggregatorConfig struct {
	DetailConcurrency int `mapstructure:"detail_concurrency" validate:"required,gt=0,lte=32"`
	ViewConcurrency   int `mapstructure:"view_concurrency" validate:"required,gt=0,lte=32"`
	MatchLimit        int `mapstructure:"match_limit" validate:"required,gt=0,lte=50"`
}

// ProviderConfig represents the upstream stats API configuration
type ProviderConfig struct {
	BaseURL                    string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                     string  `mapstructure:"api_key"`
	TimeoutSeconds             int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RequestsPerSecond          float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst                      int     `mapstructure:"burst" validate:"required,gt=0"`
	MaxRetries                 int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	CircuitBreakerThreshold    int     `mapstructure:"circuit_breaker_threshold" validate:"required,gt=0"`
	CircuitBreakerResetSeconds int     `mapstructure:"circuit_breaker_reset_seconds" validate:"required,gt=0"`
}

// CacheConfig controls the in-memory fetch cache
type CacheConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TTLSeconds             int  `mapstructure:"ttl_seconds" validate:"omitempty,gt=0"`
	CleanupIntervalSeconds int  `mapstructure:"cleanup_interval_seconds" validate:"omitempty,gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"omitempty,gte=0"`
}

// MetricsConfig represents metrics and health server configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// StorageConfig controls prediction persistence
type StorageConfig struct {
	PersistPredictions bool `mapstructure:"persist_predictions"`
}

// SchedulerConfig controls the background jobs run by the serve command
type SchedulerConfig struct {
	Enabled                   bool   `mapstructure:"enabled"`
	SettlementSchedule        string `mapstructure:"settlement_schedule" validate:"omitempty,cronexpr"`
	SettlementBatchSize       int    `mapstructure:"settlement_batch_size" validate:"omitempty,gt=0,lte=1000"`
	CacheStatsIntervalSeconds int    `mapstructure:"cache_stats_interval_seconds" validate:"omitempty,gte=5"`
}

// SecretsConfig points at an optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ProviderTimeout returns the per-request provider timeout
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// CacheTTL returns the fetch cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
