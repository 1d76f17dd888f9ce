package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string `yaml:"server_port"`
	ServerHost string `yaml:"server_host"`

	// Database configuration
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_ssl_mode"`
	DBPath     string `yaml:"db_path"`

	// Redis configuration
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisURL      string `yaml:"redis_url"`

	// Listing cache and rate limiting, both backed by redis
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`

	// Cover image storage
	S3BucketName string        `yaml:"s3_bucket_name"`
	S3Endpoint   string        `yaml:"s3_endpoint"` // S3-compatible stores such as MinIO
	AWSRegion    string        `yaml:"aws_region"`
	CoverURLTTL  time.Duration `yaml:"cover_url_ttl"`

	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`

	// environment values that could not be parsed, reported by ValidateConfig
	envErrs []error
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Defaults returns a configuration suitable for local development.
func Defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		ServerHost:      "0.0.0.0",
		DBDriver:        DriverPostgres,
		DBHost:          "localhost",
		DBPort:          "5432",
		DBUser:          "postgres",
		DBName:          "recipes",
		DBSSLMode:       "disable",
		DBPath:          "recipes.db",
		CacheTTL:        time.Minute,
		RateLimit:       120,
		RateLimitWindow: time.Minute,
		CoverURLTTL:     time.Hour,
		CORSOrigins:     []string{"http://localhost:5173"},
		LogLevel:        "info",
	}
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load builds the configuration from defaults, an optional YAML file at path,
// the environment and, outside CI, Docker secrets. Later sources win.
func Load(path string) (*Config, error) {
	env := GetEnvironment()
	cfg := Defaults()

	if path != "" {
		if err := loadFileConfig(cfg, path); err != nil {
			return nil, err
		}
	}

	// Load configuration based on environment
	switch env {
	case CI:
		loadEnvConfig(cfg)
	case Development, Test, Production:
		loadEnvConfig(cfg)
		loadSecretConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFileConfig overlays values from a YAML file onto cfg
func loadFileConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.DBPath != "" && cfg.DBPath != ":memory:" && !filepath.IsAbs(cfg.DBPath) {
		cfg.DBPath = filepath.Join(filepath.Dir(path), cfg.DBPath)
	}
	return nil
}

// loadEnvConfig overlays every variable that is set in the environment
func loadEnvConfig(cfg *Config) {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisURL, "REDIS_URL")
	cfg.setInt(&cfg.RedisDB, "REDIS_DB")
	cfg.setDuration(&cfg.CacheTTL, "CACHE_TTL")
	cfg.setInt(&cfg.RateLimit, "RATE_LIMIT")
	cfg.setDuration(&cfg.RateLimitWindow, "RATE_LIMIT_WINDOW")
	setString(&cfg.S3BucketName, "S3_BUCKET_NAME")
	setString(&cfg.S3Endpoint, "S3_ENDPOINT")
	setString(&cfg.AWSRegion, "AWS_REGION")
	cfg.setDuration(&cfg.CoverURLTTL, "COVER_URL_TTL")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
}

// loadSecretConfig overlays sensitive values from Docker secrets
func loadSecretConfig(cfg *Config) {
	if v := readSecret("db_user"); v != "" {
		cfg.DBUser = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("redis_url"); v != "" {
		cfg.RedisURL = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// RedisEnabled reports whether a redis server has been configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// StorageEnabled reports whether cover images are served from S3
func (c *Config) StorageEnabled() bool {
	return c.S3BucketName != ""
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.envErrs = append(c.envErrs, ValidationError{key, fmt.Sprintf("%q is not an integer", v)})
		return
	}
	*dst = n
}

func (c *Config) setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.envErrs = append(c.envErrs, ValidationError{key, fmt.Sprintf("%q is not a duration (e.g. 30s, 5m)", v)})
		return
	}
	*dst = d
}
