package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/theleywin/feed-backend/src/lib"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags every request with an id, stores a child logger carrying
// it in the user context and writes one line when the request completes.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		l := lib.L().With().Str(lib.FieldRequestID, requestID).Logger()
		c.SetUserContext(lib.WithLogger(c.UserContext(), l))

		chainErr := c.Next()
		if chainErr != nil {
			// Let the app's error handler write the response so the status is final.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		reqLog := lib.Ctx(c.UserContext())
		event := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLog.Error()
		} else if status >= fiber.StatusBadRequest {
			event = reqLog.Warn()
		}
		event.
			Str(lib.FieldMethod, c.Method()).
			Str(lib.FieldPath, c.Path()).
			Int(lib.FieldStatus, status).
			Int64(lib.FieldLatency, time.Since(start).Milliseconds()).
			Msg("request completed")
		return nil
	}
}
