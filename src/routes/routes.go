package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/controllers"
)

// Register mounts every route group on app. adminOnly runs after protect on
// the admin group.
func Register(app *fiber.App, h *controllers.Handler, protect, adminOnly fiber.Handler) {
	AuthRoutes(app, h, protect)
	ProfileRoutes(app, h, protect)
	PostRoutes(app, h, protect)
	AdminRoutes(app, h, protect, adminOnly)
}
