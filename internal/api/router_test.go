package api

import (
	"testing"
	"time"

	"github.com/gatherbase/server/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewRouterRequiresPool(t *testing.T) {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "router-test-secret",
			JWTExpiry: time.Hour,
			Issuer:    "gatherbase-test",
		},
		Environment: "test",
	}

	handler, err := NewRouter(cfg, zerolog.Nop(), nil)
	require.Error(t, err)
	require.Nil(t, handler)
}
