// Package config loads server configuration and builds a ready-to-use
// service from it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prensa-cms/prensa/pkg/prensa"
	"github.com/prensa-cms/prensa/pkg/prensa/repo/memory"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:        "8080",
		Environment: "development",
		JWTSecret:   "prensa-dev-secret",
		MediaDir:    "./data/media",
		LogLevel:    "info",
		SeedDemo:    true,
	}
}

// ServerConfig represents server configuration for the prensa service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Auth configuration
	JWTSecret string `env:"JWT_SECRET"`

	// Media files are imported from paths under this directory
	MediaDir string `env:"MEDIA_DIR" env-default:"./data/media"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" env-default:"info"` // debug, info, warn, error

	// Populate a demo fixture on startup
	SeedDemo bool `env:"SEED_DEMO" env-default:"true"`
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.Environment {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("environment must be 'development', 'production' or 'testing', got: %s", c.Environment)
	}

	if c.Environment == "production" && c.JWTSecret == "prensa-dev-secret" {
		return errors.New("jwt_secret must be overridden in production")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}

	if c.MediaDir == "" {
		return errors.New("media_dir is required")
	}

	return nil
}

// Logger builds a structured logger honoring the configured level.
// Development gets human-readable text, everything else JSON.
func (c *ServerConfig) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Environment == "development" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (prensa.Service, error) {
	if err := os.MkdirAll(c.MediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}

	options := []prensa.Option{
		prensa.WithRepository(memory.New()),
		prensa.WithLogger(c.Logger()),
	}

	return prensa.New(options...)
}
