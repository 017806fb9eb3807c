package middleware

import (
	stderrors "errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// ErrorHandler writes any error returned by a handler as an errors.Response.
// fiber's own errors (unknown route, bad method) keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *errors.Error
	var fiberErr *fiber.Error
	if !errors.As(err, &appErr) && stderrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errors.Response{
			Code:    errors.CodeFromHTTPStatus(fiberErr.Code),
			Message: fiberErr.Message,
		})
	}
	return WriteError(c, err)
}

// WriteError sends err with the status its code maps to. Server-side causes
// are logged and replaced with a generic message.
func WriteError(c *fiber.Ctx, err error) error {
	status, body := errors.ToResponse(err)
	if !errors.GetCode(err).Detailed() {
		slog.ErrorContext(c.UserContext(), "Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"code", errors.GetCode(err),
			"error", err,
		)
	}

	return c.Status(status).JSON(body)
}
