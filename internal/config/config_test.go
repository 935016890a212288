package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "maze-scores", cfg.Kafka.Topic)
	assert.Equal(t, 10, cfg.Leaderboard.DefaultLimit)
	assert.Equal(t, 100, cfg.Leaderboard.MaxLimit)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
postgres:
  user: maze
  password: ${TEST_PG_PASSWORD}
  database: mazescore
leaderboard:
  max_limit: 50
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Postgres.Password)
	assert.Equal(t, 50, cfg.Leaderboard.MaxLimit)
	// Unset fields fall back to defaults.
	assert.Equal(t, 10, cfg.Leaderboard.DefaultLimit)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
}

func TestConnectionString(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "maze",
		Password: "pw",
		Database: "scores",
	}
	assert.Equal(t,
		"postgres://maze:pw@db.internal:5433/scores?sslmode=disable",
		cfg.ConnectionString(),
	)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
