package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/controllers"
)

func PostRoutes(app *fiber.App, h *controllers.Handler, protect fiber.Handler) {
	post := app.Group("/api/v1/posts", protect)

	post.Get("/", h.GetFeedPosts)
	post.Post("/", h.CreatePost)
	post.Get("/:id", h.GetPostByID)
	post.Delete("/:id", h.DeletePost)
	post.Put("/like/:id", h.LikePost)
	post.Put("/unlike/:id", h.UnlikePost)
	post.Post("/comment/:id", h.CreateComment)
}
