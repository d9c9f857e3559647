package config

import (
	"os"
	"testing"
	"time"

	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the test; t.Setenv restores the previous value afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t,
		"MS_PORT", "ADVISORY_SOURCE", "ADVISORY_FILE", "SESSION_STORE", "REDIS_DB", "SESSION_TTL",
		"SYNC_TIMEOUT", "SYNC_INTERVAL", "STATS_SCOPE", "ARANGO_HOST", "ARANGO_PORT", "ARANGO_URL", "ARANGO_DB",
		"MONGO_URI", "MONGO_DB", "MONGO_COLLECTION",
	)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, SourceYAML, cfg.AdvisorySource)
	assert.Equal(t, "data/advisories.yaml", cfg.AdvisoryFile)
	assert.Equal(t, StoreMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.SyncTimeout)
	assert.Zero(t, cfg.SyncInterval)
	assert.Equal(t, engine.ScopeAll, cfg.StatsScope)
	assert.Equal(t, "vulnwatch", cfg.Arango.DatabaseName)
	assert.Equal(t, "http://localhost:8529", cfg.Arango.URL)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "advisory", cfg.Mongo.Collection)
}

func TestLoadMongoSource(t *testing.T) {
	t.Setenv("ADVISORY_SOURCE", "mongo")
	t.Setenv("MONGO_URI", "mongodb://advisories.internal:27017")
	t.Setenv("MONGO_DB", "psirt")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceMongo, cfg.AdvisorySource)
	assert.Equal(t, "mongodb://advisories.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, "psirt", cfg.Mongo.Database)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MS_PORT", "8080")
	t.Setenv("ADVISORY_SOURCE", "Arango")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SYNC_INTERVAL", "15m")
	t.Setenv("STATS_SCOPE", "filtered")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceArango, cfg.AdvisorySource)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.SyncInterval)
	assert.Equal(t, engine.ScopeFiltered, cfg.StatsScope)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"REDIS_DB", "zero", "REDIS_DB"},
		{"SESSION_TTL", "one day", "SESSION_TTL"},
		{"SYNC_TIMEOUT", "fast", "SYNC_TIMEOUT"},
		{"STATS_SCOPE", "visible", "STATS_SCOPE"},
		{"ADVISORY_SOURCE", "postgres", "ADVISORY_SOURCE"},
		{"SESSION_STORE", "memcached", "SESSION_STORE"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
