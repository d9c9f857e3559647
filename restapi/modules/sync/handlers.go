// Package sync implements the REST API handlers that reload the advisory catalog.
package sync

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
)

// PostSync handles POST /sync: reloads the catalog from its source. When the reload
// fails the previous advisories stay in service.
func PostSync(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := cat.Refresh(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Failed to refresh advisories: " + err.Error(),
				"status":  cat.Status(),
			})
		}

		return c.JSON(fiber.Map{
			"success":      true,
			"message":      "Advisories refreshed",
			"source":       result.Source,
			"loaded":       result.Loaded,
			"rejected":     result.Rejected,
			"refreshed_at": result.RefreshedAt,
		})
	}
}

// GetSyncStatus handles GET /sync/status.
func GetSyncStatus(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"status":  cat.Status(),
		})
	}
}
