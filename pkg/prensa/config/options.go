package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv applies environment variable overrides.
//
// Recognized variables:
//
//	PORT        - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//	JWT_SECRET  - HMAC secret for access tokens
//	MEDIA_DIR   - Directory media imports are resolved against
//	LOG_LEVEL   - debug, info, warn or error (default: "info")
//	SEED_DEMO   - Populate the demo fixture on startup (default: true)
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithJWTSecret sets the HMAC secret used to sign access tokens
func WithJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		if secret == "" {
			return fmt.Errorf("jwt secret cannot be empty")
		}
		c.JWTSecret = secret
		return nil
	}
}

// WithMediaDir sets the directory media imports are resolved against
func WithMediaDir(dir string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("media dir cannot be empty")
		}
		c.MediaDir = dir
		return nil
	}
}

// WithLogLevel sets the logging level (debug, info, warn, error)
func WithLogLevel(level string) Option {
	return func(c *ServerConfig) error {
		if level == "" {
			return fmt.Errorf("log level cannot be empty")
		}
		c.LogLevel = level
		return nil
	}
}

// WithSeedDemo toggles loading the demo fixture on startup
func WithSeedDemo(seed bool) Option {
	return func(c *ServerConfig) error {
		c.SeedDemo = seed
		return nil
	}
}
