package middlewares

import (
	"log/slog"
	"strings"

	"github.com/UmidYul/21-IDUM/internal/render"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts uncaught errors into the JSON envelope for API
// routes and rendered error pages everywhere else. Internal details are
// logged, never sent to the client.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code == fiber.StatusInternalServerError {
		slog.Error("Unhandled error", "path", ctx.Path(), "code", code, "error", err)
	}

	if strings.HasPrefix(ctx.Path(), "/api/") {
		message := "Internal server error"
		switch code {
		case fiber.StatusBadRequest:
			message = "Bad request"
		case fiber.StatusUnauthorized:
			message = "Unauthorized"
		case fiber.StatusForbidden:
			message = "Forbidden"
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			message = "Not found"
		}
		return ctx.Status(code).JSON(fiber.Map{"ok": false, "error": message})
	}

	switch code {
	case fiber.StatusBadRequest:
		return render.RenderBadRequestErrorPage(ctx)
	case fiber.StatusForbidden:
		return render.RenderForbiddenErrorPage(ctx)
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return render.RenderNotFoundErrorPage(ctx)
	default:
		return render.RenderInternalServerErrorPage(ctx)
	}
}
