package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/value-lines/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

type rule struct {
	tag string
	fn  validator.Func
}

// customRules are the tags registered on top of the stock validator
var customRules = []rule{
	{"environment", validateEnvironment},
	{"loglevel", validateLogLevel},
	{"statfield", validateStatField},
	{"cronexpr", validateCronExpr},
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	return newValidator(customRules)
}

func newValidator(rules []rule) (*CustomValidator, error) {
	v := validator.New()
	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", r.tag, err)
		}
	}
	return &CustomValidator{validator: v}, nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv, err := NewValidator()
	if err != nil {
		return err
	}
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStatField(fl validator.FieldLevel) bool {
	_, err := models.ParseFieldName(fl.Field().String())
	return err == nil
}

func validateCronExpr(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	e := cfg.Engine
	if e.MinProbability > e.TargetProbability || e.TargetProbability > e.MaxProbability {
		return fmt.Errorf("engine probabilities must satisfy min_probability <= target_probability <= max_probability")
	}

	c := e.Confidence
	if c.MediumMinSample > c.HighMinSample {
		return fmt.Errorf("engine.confidence.medium_min_sample cannot exceed high_min_sample")
	}
	if c.MediumMaxStdDev < c.HighMaxStdDev {
		return fmt.Errorf("engine.confidence.medium_max_std_dev cannot be below high_max_std_dev")
	}

	if cfg.Cache.Enabled && cfg.Cache.TTLSeconds == 0 {
		return fmt.Errorf("cache.ttl_seconds is required when the cache is enabled")
	}

	if cfg.Database.Enabled {
		var missing []string
		if cfg.Database.Host == "" {
			missing = append(missing, "host")
		}
		if cfg.Database.Name == "" {
			missing = append(missing, "name")
		}
		if cfg.Database.User == "" {
			missing = append(missing, "user")
		}
		if len(missing) > 0 {
			return fmt.Errorf("database enabled but missing: %s", strings.Join(missing, ", "))
		}
		if cfg.Database.MinConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("database.min_connections cannot exceed max_connections")
		}
	}

	if cfg.Storage.PersistPredictions && !cfg.Database.Enabled {
		return fmt.Errorf("storage.persist_predictions requires database.enabled")
	}

	if cfg.Scheduler.Enabled {
		if !cfg.Database.Enabled {
			return fmt.Errorf("scheduler requires database.enabled for settlement")
		}
		if cfg.Scheduler.SettlementSchedule == "" {
			return fmt.Errorf("scheduler.settlement_schedule is required when the scheduler is enabled")
		}
	}

	if cfg.Secrets.Enabled && (cfg.Secrets.Region == "" || cfg.Secrets.SecretName == "") {
		return fmt.Errorf("secrets overlay requires region and secret_name")
	}

	return ValidateEnvironment(cfg)
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		value := fieldError.Value()

		switch fieldError.Tag() {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, fieldError.Tag())
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, fieldError.Tag())
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "statfield":
			fmt.Fprintf(&b, "- Field '%s' has unknown stat field '%v'\n", field, value)
		case "cronexpr":
			fmt.Fprintf(&b, "- Field '%s' is not a valid cron schedule: '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, fieldError.Tag())
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if !cfg.IsProduction() {
		return nil
	}
	if cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
	}
	if cfg.App.LogLevel == "debug" {
		return fmt.Errorf("debug logging is not allowed in production")
	}
	return nil
}
