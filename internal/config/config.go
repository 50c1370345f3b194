package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config carries the environment-driven settings of the auth subsystem.
type Config struct {
	// TokenSecret signs session tokens. Required: there is no safe default.
	TokenSecret string `env:"AUTH_TOKEN_SECRET"`

	// SessionTTL is the lifetime of issued sessions.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL, default=24h"`

	LogLevel  string `env:"AUTH_LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"AUTH_LOG_PRETTY, default=false"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
