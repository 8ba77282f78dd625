package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/controllers"
)

// ProfileRoutes sets up profile management, follow edges and bookmarks.
func ProfileRoutes(app *fiber.App, h *controllers.Handler, protect fiber.Handler) {
	profile := app.Group("/api/v1/profile", protect)

	profile.Get("/me", h.GetMyProfile)
	profile.Post("/", h.UpsertProfile)
	profile.Get("/", h.GetProfiles)
	profile.Delete("/", h.DeleteAccount)
	profile.Get("/user/:userId", h.GetProfileByUser)
	profile.Get("/user/:userId/stats", h.GetProfileStats)

	profile.Put("/follow/:userId", h.FollowUser)
	profile.Put("/unfollow/:userId", h.UnfollowUser)

	profile.Get("/bookmarks", h.GetBookmarks)
	profile.Put("/bookmarks/:postId", h.AddBookmark)
	profile.Delete("/bookmarks/:postId", h.RemoveBookmark)
}
