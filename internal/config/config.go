package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort              = "8000"
	DefaultSQLitePath        = "data/expenses.db"
	DefaultAccessTokenTTL    = 5 * time.Minute
	DefaultRefreshTokenTTL   = 24 * time.Hour
	DefaultCORSAllowedOrigin = "*"
	DefaultLogLevel          = "info"
	DefaultAMQPExchange      = "expenses"
)

type Config struct {
	Port       string
	SQLitePath string
	JwtKey     []byte
	// Token lifetimes
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// HTTP surface
	APIPrefix         string
	CORSAllowedOrigin string
	LogLevel          string
	// Expense events; an empty AMQPURL disables publishing
	AMQPURL      string
	AMQPExchange string
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults and validating the result.
func FromEnv(getenv func(string) string) (*Config, error) {
	var errs []string

	accessTTL, err := durationOr(getenv("ACCESS_TOKEN_TTL"), DefaultAccessTokenTTL)
	if err != nil {
		errs = append(errs, fmt.Sprintf("ACCESS_TOKEN_TTL: %v", err))
	}
	refreshTTL, err := durationOr(getenv("REFRESH_TOKEN_TTL"), DefaultRefreshTokenTTL)
	if err != nil {
		errs = append(errs, fmt.Sprintf("REFRESH_TOKEN_TTL: %v", err))
	}

	config := &Config{
		Port:              valueOr(getenv("PORT"), DefaultPort),
		SQLitePath:        valueOr(getenv("SQLITE_PATH"), DefaultSQLitePath),
		JwtKey:            []byte(getenv("JWT_SECRET_KEY")),
		AccessTokenTTL:    accessTTL,
		RefreshTokenTTL:   refreshTTL,
		APIPrefix:         normalizePrefix(getenv("API_PREFIX")),
		CORSAllowedOrigin: valueOr(getenv("CORS_ALLOWED_ORIGIN"), DefaultCORSAllowedOrigin),
		LogLevel:          valueOr(getenv("LOG_LEVEL"), DefaultLogLevel),
		AMQPURL:           getenv("AMQP_URL"),
		AMQPExchange:      valueOr(getenv("AMQP_EXCHANGE"), DefaultAMQPExchange),
	}

	if err := config.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return config, nil
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []string

	if len(c.JwtKey) == 0 {
		errs = append(errs, "JWT_SECRET_KEY is not set")
	}
	if c.Port == "" {
		errs = append(errs, "PORT must not be empty")
	}
	if c.SQLitePath == "" {
		errs = append(errs, "SQLITE_PATH must not be empty")
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, "ACCESS_TOKEN_TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, "REFRESH_TOKEN_TTL must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// EventsEnabled reports whether expense events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func durationOr(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

// normalizePrefix turns "api", "/api/" and "/api" into "/api". Empty stays empty.
func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
