package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger logs every request with its status and duration and tags the
// response with an X-Request-ID.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)
		c.Locals("request_id", requestID)

		zap.S().Infow("API request", "method", c.Method(), "path", c.Path(), "query", string(c.Request().URI().QueryString()), "request_id", requestID)

		err := c.Next()
		if err != nil {
			// let the app error handler write the response before reading the status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		zap.S().Infow("API response",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"request_id", requestID,
		)
		return nil
	}
}

// ErrorHandler turns unexpected handler errors into the shared JSON error body.
// The error text is only exposed when debug is set.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			if code < fiber.StatusInternalServerError {
				return c.Status(code).JSON(fiber.Map{"error": e.Message})
			}
		}

		zap.S().Errorw("API error", "method", c.Method(), "path", c.Path(), "error", err, zap.Stack("stack"))

		message := "An internal error occurred"
		if debug {
			message = err.Error()
		}
		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": message,
			},
		})
	}
}
