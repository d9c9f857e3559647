// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/session"
	"github.com/ortelius/vulnwatch-backend/restapi/modules/advisories"
	"github.com/ortelius/vulnwatch-backend/restapi/modules/sessions"
	"github.com/ortelius/vulnwatch-backend/restapi/modules/sync"
	"github.com/ortelius/vulnwatch-backend/util"
)

var logger = util.Logger() // setup the logger

// Deps are the services the routes are served from.
type Deps struct {
	Catalog    *catalog.Catalog
	Sessions   *session.Service
	Schema     graphql.Schema
	StatsScope engine.StatsScope
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint under /api/v1.
func SetupRoutes(app *fiber.App, deps Deps) {
	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route
	api.Post("/graphql", GraphQLHandler(deps.Schema))

	// Advisory table, detail and dashboard aggregates
	api.Get("/advisories", advisories.ListAdvisories(deps.Catalog, deps.StatsScope))
	api.Get("/advisories/:id", advisories.GetAdvisory(deps.Catalog))
	api.Get("/stats", advisories.GetStats(deps.Catalog, deps.StatsScope))
	api.Get("/filters/options", advisories.GetFilterOptions(deps.Catalog))

	// Dashboard sessions
	sessionGroup := api.Group("/sessions")
	sessionGroup.Post("/", sessions.CreateSession(deps.Sessions))
	sessionGroup.Get("/:id", sessions.GetSession(deps.Sessions))
	sessionGroup.Delete("/:id", sessions.DeleteSession(deps.Sessions))
	sessionGroup.Patch("/:id/filters", sessions.PatchFilters(deps.Sessions))
	sessionGroup.Post("/:id/filters/toggle", sessions.ToggleFilter(deps.Sessions))
	sessionGroup.Post("/:id/filters/clear", sessions.ClearFilters(deps.Sessions))
	sessionGroup.Post("/:id/sort/:field", sessions.ToggleSort(deps.Sessions))
	sessionGroup.Get("/:id/view", sessions.GetView(deps.Sessions, deps.Catalog, deps.StatsScope))

	// Catalog sync
	api.Post("/sync", sync.PostSync(deps.Catalog))
	api.Get("/sync/status", sync.GetSyncStatus(deps.Catalog))

	logger.Info("API routes initialized successfully")
}
