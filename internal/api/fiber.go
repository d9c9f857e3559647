// Package api builds the Fiber application serving the REST and GraphQL routes.
package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ortelius/vulnwatch-backend/graphql"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/session"
	"github.com/ortelius/vulnwatch-backend/restapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the app.
type Options struct {
	CORSOrigins string
	StatsScope  engine.StatsScope
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(cat *catalog.Catalog, sessions *session.Service, opts Options) (*fiber.App, error) {
	// Initialize GraphQL schema
	schema, err := graphql.CreateSchema(cat, opts.StatsScope)
	if err != nil {
		return nil, fmt.Errorf("create GraphQL schema: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:     "vulnwatch-backend API v1.0",
		BodyLimit:   1 * 1024 * 1024, // 1MB
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// credentials are only allowed with an explicit origin list
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: origins != "*",
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	if opts.AccessLog {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("graphql_op", "-")
			return c.Next()
		})
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:graphql_op}\n",
		}))
	}

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		st := cat.Status()
		return c.JSON(fiber.Map{
			"status":     "healthy",
			"advisories": st.Count,
			"loaded_at":  st.LoadedAt,
		})
	})

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Setup REST and GraphQL routes
	restapi.SetupRoutes(app, restapi.Deps{
		Catalog:    cat,
		Sessions:   sessions,
		Schema:     schema,
		StatsScope: opts.StatsScope,
	})

	return app, nil
}
