package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

// ProtectRoute checks the bearer token, loads the user it names and attaches
// it to the request as c.Locals("user").
func ProtectRoute(tokens *lib.TokenManager, users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - No token provided"))
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - Invalid token format"))
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - Invalid token"))
		}

		objectID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid user ID"))
		}

		user, err := users.UserByID(c.UserContext(), objectID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				l := lib.Ctx(c.UserContext())
				l.Error().Err(err).Str(lib.FieldUserID, userID).Msg("failed to load user for token")
				return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not found"))
		}

		user.Password = ""
		c.Locals("user", *user)

		l := lib.Ctx(c.UserContext()).With().Str(lib.FieldUserID, userID).Logger()
		c.SetUserContext(lib.WithLogger(c.UserContext(), l))

		return c.Next()
	}
}

// CurrentUser returns the user attached by ProtectRoute.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}

// AdminOnly lets through only users whose id is in adminIDs. It must run
// after ProtectRoute. An empty list rejects everyone.
func AdminOnly(adminIDs []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Unauthorized - No token provided"))
		}
		if _, ok := allowed[user.Id.Hex()]; !ok {
			l := lib.Ctx(c.UserContext())
			l.Warn().Str(lib.FieldUserID, user.Id.Hex()).Str("path", c.Path()).Msg("admin route refused")
			return c.Status(fiber.StatusForbidden).JSON(lib.MessageResponse("Admin access required"))
		}
		return c.Next()
	}
}
