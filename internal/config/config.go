// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all startup configuration. The signing secret and the
// store are the only process-wide state; both are read-only after Load.
type Config struct {
	Port           string   `env:"PORT" env-default:"8080"`
	BaseURL        string   `env:"BASE_URL" env-default:"http://localhost:8080"`
	DatabaseDriver string   `env:"DATABASE_DRIVER" env-default:"sqlite"`
	DatabasePath   string   `env:"DATABASE_PATH" env-default:"muralia.db"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	JWTSecret      string   `env:"JWT_SECRET"`
	BcryptCost     int      `env:"BCRYPT_COST" env-default:"12"`
	MaxUploadBytes int64    `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants that would otherwise surface
// as confusing runtime failures.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want sqlite or postgres)", c.DatabaseDriver)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}
