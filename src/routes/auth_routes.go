package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/controllers"
)

// AuthRoutes sets up signup, login and the current-user lookup.
func AuthRoutes(app *fiber.App, h *controllers.Handler, protect fiber.Handler) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Get("/me", protect, h.GetCurrentUser)
}
