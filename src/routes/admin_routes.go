package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/controllers"
)

// AdminRoutes mounts the maintenance endpoints behind protect and adminOnly.
func AdminRoutes(app *fiber.App, h *controllers.Handler, protect, adminOnly fiber.Handler) {
	admin := app.Group("/api/v1/admin", protect, adminOnly)

	admin.Post("/reconcile", h.Reconcile)
}
