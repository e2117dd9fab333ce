package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, uint16(6379), cfg.RedisPort)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, 10, cfg.MaxAutoExtensions)
	assert.Equal(t, 3*time.Second, cfg.BidLockTimeout)
	assert.Equal(t, 30*time.Second, cfg.CloseLockTtl)
	assert.Equal(t, 5*time.Second, cfg.SchedulerInterval)
	assert.Equal(t, time.Second, cfg.OutboxInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, uint16(8085), cfg.HttpServerPort)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("MAX_AUTO_EXTENSIONS", "3")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")
	t.Setenv("BID_LOCK_TIMEOUT", "500ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.RedisHost)
	assert.Equal(t, 3, cfg.MaxAutoExtensions)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BidLockTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("HTTP_SERVER_PORT", "80")

	_, err := LoadConfig()
	assert.Error(t, err, "ports below 1000 are rejected")
}
