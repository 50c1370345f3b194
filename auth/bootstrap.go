package auth

import (
	"github.com/jrsteele09/go-bank-auth/credentials"
	"github.com/jrsteele09/go-bank-auth/internal/config"
	"github.com/jrsteele09/go-bank-auth/internal/logger"
	"github.com/jrsteele09/go-bank-auth/sessions"
	"github.com/pkg/errors"
)

// NewFromConfig wires a Service with a fresh in-memory credential store and
// session registry, configured from the environment. Embedding applications
// that hold pre-existing credential state use NewService with a store built
// via credentials.NewInMemoryStoreFromSnapshot instead.
func NewFromConfig(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("[NewFromConfig] config is required")
	}

	registry, err := sessions.NewRegistry([]byte(cfg.TokenSecret))
	if err != nil {
		return nil, errors.Wrap(err, "[NewFromConfig] sessions.NewRegistry")
	}

	return NewService(
		credentials.NewInMemoryStore(),
		registry,
		WithSessionTTL(cfg.SessionTTL),
		WithLogger(logger.New(cfg.LogLevel, cfg.LogPretty, nil)),
	)
}
