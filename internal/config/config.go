// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server.
type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"./data/expensex.db"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenDuration   time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// CacheTTL of zero disables settlement caching.
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"expensex"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"expensex.expenses"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_DURATION must be positive, got %s", c.TokenDuration))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must not be negative, got %d", c.RedisDB))
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		errs = append(errs, errors.New("AMQP_EXCHANGE and AMQP_QUEUE are required when AMQP_URL is set"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}
