package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/middleware"
	"github.com/theleywin/feed-backend/src/social"
	"github.com/theleywin/feed-backend/src/store"
)

// Handler holds what the HTTP controllers need. The principal is always read
// from the request and passed to the service explicitly.
type Handler struct {
	svc    *social.Service
	users  store.UserStore
	tokens *lib.TokenManager
}

func NewHandler(svc *social.Service, users store.UserStore, tokens *lib.TokenManager) *Handler {
	return &Handler{svc: svc, users: users, tokens: tokens}
}

func principal(c *fiber.Ctx) (social.Principal, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return social.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return social.PrincipalFromUser(user), nil
}

// paramID parses an ObjectID route parameter into a 400 on failure.
func paramID(c *fiber.Ctx, name, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return id, fiber.NewError(fiber.StatusBadRequest, "Invalid "+label+" ID format")
	}
	return id, nil
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, social.ErrSelfFollow):
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("You can't follow yourself"))
	case errors.Is(err, social.ErrNotBookmarked):
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Post has not been bookmarked"))
	case errors.Is(err, social.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Profile not found"))
	case errors.Is(err, social.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	case errors.Is(err, social.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("User not found"))
	case errors.Is(err, social.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(lib.MessageResponse("Not authorized"))
	case errors.Is(err, social.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(lib.MessageResponse("The resource was modified concurrently, please retry"))
	}

	l := lib.Ctx(c.UserContext())
	l.Error().Err(err).Str(lib.FieldPath, c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
}
