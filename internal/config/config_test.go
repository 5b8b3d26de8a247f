package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prepsom", cfg.Name)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/api/v1", cfg.DevServer.Prefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PREPSOM_API_URL", "https://api.example.test")
	t.Setenv("PREPSOM_HTTP_TIMEOUT", "3s")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	t.Setenv("STORE_DRIVER", "floppy")
	_, err := Load(context.Background())
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "postgres")
	_, err = Load(context.Background())
	assert.ErrorContains(t, err, "PG_USER")

	t.Setenv("PG_USER", "prep")
	t.Setenv("PG_DATABASE", "prep")
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, cfg.Postgres.ConnString(), "dbname=prep")
}
