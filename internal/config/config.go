package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries all process-level settings, loaded from environment variables.
type Config struct {
	Port    string `envconfig:"PORT" default:"5000"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`

	DBURL    string `envconfig:"DB_URL" required:"true"`
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN" default:"168h"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
