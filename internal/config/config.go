// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ortelius/vulnwatch-backend/database"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/source"
	"github.com/ortelius/vulnwatch-backend/util"
)

// Advisory sources.
const (
	SourceYAML   = "yaml"
	SourceArango = "arango"
	SourceMongo  = "mongo"
)

// Session stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the complete service configuration.
type Config struct {
	Port string

	AdvisorySource string
	AdvisoryFile   string
	Arango         database.Config
	Mongo          source.MongoConfig

	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	StatsScope   engine.StatsScope
	SyncTimeout  time.Duration
	SyncInterval time.Duration

	CORSOrigins string
}

// Load reads every setting, applying defaults for unset variables.
func Load() (Config, error) {
	cfg := Config{
		Port:           util.GetEnvDefault("MS_PORT", "3000"),
		AdvisorySource: strings.ToLower(util.GetEnvDefault("ADVISORY_SOURCE", SourceYAML)),
		AdvisoryFile:   util.GetEnvDefault("ADVISORY_FILE", "data/advisories.yaml"),
		Arango:         database.ConfigFromEnv(),
		Mongo: source.MongoConfig{
			URI:        util.GetEnvDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database:   util.GetEnvDefault("MONGO_DB", "vulnwatch"),
			Collection: util.GetEnvDefault("MONGO_COLLECTION", "advisory"),
		},
		SessionStore:   strings.ToLower(util.GetEnvDefault("SESSION_STORE", StoreMemory)),
		RedisAddr:      util.GetEnvDefault("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  util.GetEnvDefault("REDIS_PASSWORD", ""),
		CORSOrigins:    util.GetEnvDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:4000,http://127.0.0.1:3000,http://127.0.0.1:4000"),
	}

	var err error
	if cfg.RedisDB, err = util.GetEnvInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.SessionTTL, err = util.GetEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.SyncTimeout, err = util.GetEnvDuration("SYNC_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, fmt.Errorf("SYNC_TIMEOUT: %w", err)
	}
	if cfg.SyncInterval, err = util.GetEnvDuration("SYNC_INTERVAL", 0); err != nil {
		return Config{}, fmt.Errorf("SYNC_INTERVAL: %w", err)
	}
	if cfg.StatsScope, err = engine.ParseStatsScope(util.GetEnvDefault("STATS_SCOPE", ""), engine.ScopeAll); err != nil {
		return Config{}, fmt.Errorf("STATS_SCOPE: %w", err)
	}

	switch cfg.AdvisorySource {
	case SourceYAML, SourceArango, SourceMongo:
	default:
		return Config{}, fmt.Errorf("ADVISORY_SOURCE: unsupported source %q", cfg.AdvisorySource)
	}

	switch cfg.SessionStore {
	case StoreMemory, StoreRedis:
	default:
		return Config{}, fmt.Errorf("SESSION_STORE: unsupported store %q", cfg.SessionStore)
	}

	return cfg, nil
}
