package lib

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// MessageResponse returns a map with a message key for API responses
func MessageResponse(message string) fiber.Map {
	return fiber.Map{
		"message": message,
	}
}

// ErrorHandler writes errors returned from handlers in the same shape as
// MessageResponse. Anything that is not a *fiber.Error becomes a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		l := Ctx(c.UserContext())
		l.Error().Err(err).Str(FieldPath, c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(MessageResponse(message))
}
