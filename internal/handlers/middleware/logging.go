// Package middleware holds the fiber middleware shared by every route
package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogging logs one structured line per request. The level follows
// the response status.
func RequestLogging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// write the error now so the logged status is the one sent
			if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) // nolint:errcheck
			}
		}

		statusCode := c.Response().StatusCode()
		level := slog.LevelInfo
		if statusCode >= fiber.StatusBadRequest && statusCode < fiber.StatusInternalServerError {
			level = slog.LevelWarn
		} else if statusCode >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", statusCode),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.IP()),
			slog.Int("size", len(c.Response().Body())),
		}
		if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if query := string(c.Request().URI().QueryString()); query != "" {
			attrs = append(attrs, slog.String("query", query))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		slog.LogAttrs(c.UserContext(), level, "HTTP request processed", attrs...)

		return nil
	}
}
