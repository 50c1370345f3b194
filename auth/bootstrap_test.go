package auth_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-bank-auth/auth"
	"github.com/jrsteele09/go-bank-auth/internal/config"
	"github.com/jrsteele09/go-bank-auth/users"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "bootstrap-test-secret")
	t.Setenv("AUTH_SESSION_TTL", "1h")

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)

	service, err := auth.NewFromConfig(cfg)
	require.NoError(t, err)

	require.NoError(t, service.Register(testUserID, testUserName, testPassword, users.RoleCustomer))
	token, err := service.Login(testUserID, testPassword)
	require.NoError(t, err)

	session, err := service.Authorize(token, users.PermViewOwnAccount)
	require.NoError(t, err)
	require.Equal(t, testUserID, session.SubjectID)
}

func TestNewFromConfigRequiresSecret(t *testing.T) {
	_, err := auth.NewFromConfig(&config.Config{})
	require.Error(t, err)

	_, err = auth.NewFromConfig(nil)
	require.Error(t, err)
}
