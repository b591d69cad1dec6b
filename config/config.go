// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/repository"
)

// Config holds everything main needs to wire the service
type Config struct {
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Port           string   `mapstructure:"PORT"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBDSN      string `mapstructure:"DB_DSN"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	AnthropicAPIKey   string        `mapstructure:"ANTHROPIC_API_KEY"`
	ExtractionURL     string        `mapstructure:"EXTRACTION_URL"`
	ExtractionModel   string        `mapstructure:"EXTRACTION_MODEL"`
	ExtractionTimeout time.Duration `mapstructure:"EXTRACTION_TIMEOUT"`

	NewRelicLicenseKey string `mapstructure:"NEW_RELIC_LICENSE_KEY"`
	CurrentUserName    string `mapstructure:"CURRENT_USER_NAME"`
}

var keys = []string{
	"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS",
	"DB_DRIVER", "DB_DSN", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "SQLITE_PATH",
	"ANTHROPIC_API_KEY", "EXTRACTION_URL", "EXTRACTION_MODEL", "EXTRACTION_TIMEOUT",
	"NEW_RELIC_LICENSE_KEY", "CURRENT_USER_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", repository.DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "nexbill")
	v.SetDefault("SQLITE_PATH", "data/nexbill.db")
	v.SetDefault("EXTRACTION_URL", "https://api.anthropic.com/v1/messages")
	v.SetDefault("EXTRACTION_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("EXTRACTION_TIMEOUT", "60s")
	v.SetDefault("CURRENT_USER_NAME", "Me")
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Debugw(".env file not found, using environment variables")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	// AutomaticEnv only answers Get; Unmarshal needs every key bound
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.DBDriver != repository.DriverPostgres && c.DBDriver != repository.DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", repository.DriverPostgres, repository.DriverSQLite, c.DBDriver)
	}
	if c.ExtractionTimeout <= 0 {
		return fmt.Errorf("EXTRACTION_TIMEOUT must be positive")
	}
	return nil
}

// DatabaseDSN returns DB_DSN when set, otherwise builds one for the driver
func (c *Config) DatabaseDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == repository.DriverPostgres {
		return repository.PostgresDSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
	return repository.SQLiteDSN(c.SQLitePath)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
