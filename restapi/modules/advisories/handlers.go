// Package advisories implements the REST API handlers for the advisory table,
// detail view, dashboard aggregates and filter pickers.
package advisories

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/metrics"
	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
)

var logger = util.Logger() // setup the logger

// DefaultVendorLimit is the number of vendors shown in the vendor chart.
const DefaultVendorLimit = 8

// ListAdvisories handles GET /advisories: the filtered and sorted table rows.
func ListAdvisories(cat *catalog.Catalog, defaultScope engine.StatsScope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer metrics.ObserveQuery("list")()

		q, err := ParseQuery(c, defaultScope)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		all := cat.Snapshot()
		filtered := engine.ApplyFilters(all, q.Filters)

		return c.JSON(fiber.Map{
			"success":        true,
			"advisories":     engine.SortAdvisories(filtered, q.Sort),
			"total":          len(all),
			"matched":        len(filtered),
			"active_filters": q.Filters.ActiveCount(),
			"filters":        q.Filters,
			"sort":           q.Sort,
		})
	}
}

// GetAdvisory handles GET /advisories/:id.
func GetAdvisory(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := cat.Get(c.Params("id"))
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success":  true,
			"advisory": model.NewAdvisoryDetail(a),
		})
	}
}

// GetStats handles GET /stats: the stat cards and chart series for the selected scope.
// vendor_limit caps the vendor series (default DefaultVendorLimit, 0 for all).
func GetStats(cat *catalog.Catalog, defaultScope engine.StatsScope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer metrics.ObserveQuery("stats")()

		q, err := ParseQuery(c, defaultScope)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		limit, err := ParseVendorLimit(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		base := cat.Snapshot()
		if q.Scope == engine.ScopeFiltered {
			base = engine.ApplyFilters(base, q.Filters)
		}

		stats, err := engine.Aggregate(base)
		if err != nil {
			logger.Sugar().Errorf("Aggregating %d advisories failed: %v", len(base), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		stats.Vendors = engine.TopVendors(stats.Vendors, limit)

		return c.JSON(fiber.Map{
			"success":     true,
			"stats_scope": q.Scope,
			"overview":    stats.Overview,
			"severity":    stats.Severity,
			"vendors":     stats.Vendors,
			"timeline":    stats.Timeline,
		})
	}
}

// GetFilterOptions handles GET /filters/options.
func GetFilterOptions(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"options": engine.BuildFilterOptions(cat.Snapshot()),
		})
	}
}
