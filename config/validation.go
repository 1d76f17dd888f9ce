package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines which fields must be present in an environment
type ConfigRequirements struct {
	RequireDBPassword bool
	RequireRedis      bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI:          {},
		Production: {
			RequireDBPassword: true,
			RequireRedis:      true,
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[GetEnvironment()]

	errs := append([]error(nil), cfg.envErrs...)

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"server_port", "is required"})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		for field, value := range map[string]string{
			"db_host": cfg.DBHost,
			"db_port": cfg.DBPort,
			"db_user": cfg.DBUser,
			"db_name": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for the postgres driver"})
			}
		}
		if reqs.RequireDBPassword && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"db_password", "secret is required"})
		}
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{"db_path", "is required for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{"db_driver", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if reqs.RequireRedis && !cfg.RedisEnabled() {
		errs = append(errs, ValidationError{"redis_url", "redis_url or redis_host is required"})
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, ValidationError{"rate_limit", "must not be negative"})
	}
	if cfg.RateLimit > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"rate_limit_window", "must be positive when rate_limit is set"})
	}

	return errors.Join(errs...)
}
