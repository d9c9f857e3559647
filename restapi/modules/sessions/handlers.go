// Package sessions implements the REST API handlers for dashboard sessions: the
// stored filter and sort selection and the view derived from it.
package sessions

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/vulnwatch-backend/internal/catalog"
	"github.com/ortelius/vulnwatch-backend/internal/engine"
	"github.com/ortelius/vulnwatch-backend/internal/metrics"
	"github.com/ortelius/vulnwatch-backend/internal/session"
	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
)

var logger = util.Logger() // setup the logger

// ToggleRequest selects one filter value to add or remove.
type ToggleRequest struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// CreateSession handles POST /sessions.
func CreateSession(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.Create(c.UserContext())
		if err != nil {
			return failure(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"session": sess,
		})
	}
}

// GetSession handles GET /sessions/:id.
func GetSession(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return failure(c, err)
		}
		return sessionResponse(c, sess)
	}
}

// DeleteSession handles DELETE /sessions/:id.
func DeleteSession(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return failure(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PatchFilters handles PATCH /sessions/:id/filters. Fields absent from the body
// keep their current value.
func PatchFilters(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.FilterPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		sess, err := svc.PatchFilters(c.UserContext(), c.Params("id"), patch)
		if err != nil {
			return failure(c, err)
		}
		return sessionResponse(c, sess)
	}
}

// ToggleFilter handles POST /sessions/:id/filters/toggle.
func ToggleFilter(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ToggleRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if req.Value == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "value is required",
			})
		}

		sess, err := svc.ToggleFilter(c.UserContext(), c.Params("id"), req.Dimension, req.Value)
		if err != nil {
			return failure(c, err)
		}
		return sessionResponse(c, sess)
	}
}

// ClearFilters handles POST /sessions/:id/filters/clear.
func ClearFilters(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.ClearFilters(c.UserContext(), c.Params("id"))
		if err != nil {
			return failure(c, err)
		}
		return sessionResponse(c, sess)
	}
}

// ToggleSort handles POST /sessions/:id/sort/:field.
func ToggleSort(svc *session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := svc.ToggleSort(c.UserContext(), c.Params("id"), c.Params("field"))
		if err != nil {
			return failure(c, err)
		}
		return sessionResponse(c, sess)
	}
}

// GetView handles GET /sessions/:id/view: the table rows and aggregates for the
// session's current selection.
func GetView(svc *session.Service, cat *catalog.Catalog, defaultScope engine.StatsScope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer metrics.ObserveQuery("view")()

		scope, err := engine.ParseStatsScope(c.Query("stats_scope"), defaultScope)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		sess, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return failure(c, err)
		}

		view, err := engine.Derive(cat.Snapshot(), sess.Filters, sess.Sort, scope)
		if err != nil {
			logger.Sugar().Errorf("Deriving view for session %s failed: %v", sess.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success":        true,
			"session_id":     sess.ID,
			"active_filters": sess.Filters.ActiveCount(),
			"view":           view,
		})
	}
}

func sessionResponse(c *fiber.Ctx, sess session.Session) error {
	return c.JSON(fiber.Map{
		"success":        true,
		"session":        sess,
		"active_filters": sess.Filters.ActiveCount(),
	})
}

func failure(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, model.ErrUnknownSeverity),
		errors.Is(err, model.ErrUnknownSortField),
		errors.Is(err, session.ErrUnknownDimension):
		status = fiber.StatusBadRequest
	default:
		logger.Sugar().Errorf("Session request failed: %v", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
