// package main provides the entry point for the vulnwatch-backend microservice,
// serving the advisory dashboard over REST and GraphQL.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ortelius/vulnwatch-backend/database"
	"github.com/ortelius/vulnwatch-backend/internal/api"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/config"
	"github.com/ortelius/vulnwatch-backend/internal/session"
	"github.com/ortelius/vulnwatch-backend/internal/source"
	"github.com/ortelius/vulnwatch-backend/util"
)

var logger = util.Logger() // setup the logger

func main() {
	defer func() { _ = logger.Sync() }()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Sugar().Warnf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := newSource(ctx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("Failed to initialize advisory source: %v", err)
	}

	cat := catalog.New(src, catalog.WithTimeout(cfg.SyncTimeout))
	if _, err := cat.Refresh(ctx); err != nil {
		// serve an empty catalog; POST /sync or the next scheduled refresh can recover
		logger.Sugar().Errorf("Initial advisory load failed: %v", err)
	}
	go cat.Run(ctx, cfg.SyncInterval)

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Sugar().Fatalf("Failed to initialize session store: %v", err)
	}

	app, err := api.NewFiberApp(cat, session.NewService(store), api.Options{
		CORSOrigins: cfg.CORSOrigins,
		StatsScope:  cfg.StatsScope,
		AccessLog:   true,
	})
	if err != nil {
		logger.Sugar().Fatalf("Failed to create app: %v", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Sugar().Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Sugar().Infof("Starting server on port %s", cfg.Port)
	logger.Sugar().Infof("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Sugar().Fatalf("Failed to start server: %v", err)
	}

	if closer, ok := src.(interface{ Close(context.Context) error }); ok {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := closer.Close(closeCtx); err != nil {
			logger.Sugar().Warnf("Failed to close advisory source: %v", err)
		}
	}
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Sugar().Warnf("Failed to close session store: %v", err)
		}
	}
}

func newSource(ctx context.Context, cfg config.Config) (source.Source, error) {
	switch cfg.AdvisorySource {
	case config.SourceArango:
		db, err := database.InitializeDatabase(ctx, cfg.Arango)
		if err != nil {
			return nil, err
		}
		return source.NewArangoSource(db), nil
	case config.SourceMongo:
		src, err := source.NewMongoSource(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return source.NewYAMLSource(cfg.AdvisoryFile), nil
	}
}

func newSessionStore(cfg config.Config) (session.Store, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		return session.NewRedisStore(session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
	default:
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
}
