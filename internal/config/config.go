package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// DefaultJWTSecret is only acceptable outside release mode.
const DefaultJWTSecret = "default-secret-key-change-me"

const minReleaseSecretLength = 32

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string        `env:"PORT"             envDefault:"8080"`
	GinMode         string        `env:"GIN_MODE"         envDefault:"debug"`
	DBDriver        string        `env:"DB_DRIVER"        envDefault:"mysql"`
	DBHost          string        `env:"DB_HOST"          envDefault:"localhost"`
	DBPort          string        `env:"DB_PORT"          envDefault:"3306"`
	DBUser          string        `env:"DB_USER"          envDefault:"taskuser"`
	DBPassword      string        `env:"DB_PASSWORD"      envDefault:"taskpassword"`
	DBName          string        `env:"DB_NAME"          envDefault:"task_tracker"`
	DBSSLMode       string        `env:"DB_SSLMODE"       envDefault:"disable"`
	SQLitePath      string        `env:"SQLITE_PATH"      envDefault:"task_tracker.db"`
	JWTSecret       string        `env:"JWT_SECRET"       envDefault:"default-secret-key-change-me"`
	TokenTTL        time.Duration `env:"TOKEN_TTL"        envDefault:"24h"`
	BcryptCost      int           `env:"BCRYPT_COST"      envDefault:"10"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsRelease() {
		if c.JWTSecret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default in release mode")
		}
		if len(c.JWTSecret) < minReleaseSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d bytes in release mode", minReleaseSecretLength)
		}
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}

	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
