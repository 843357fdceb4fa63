package render

import (
	"github.com/gofiber/fiber/v2"
)

type LoginPageData struct {
	Username string
	ErrorMsg string
}

type AdminPageData struct {
	Username string
	Role     string
	Section  string
}

func RenderInternalServerErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-internal", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusInternalServerError).SendString(body)
}

func RenderNotFoundErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-not-found", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusNotFound).SendString(body)
}

func RenderForbiddenErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-forbidden", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusForbidden).SendString(body)
}

func RenderBadRequestErrorPage(ctx *fiber.Ctx) error {
	body, err := RenderHTML("error-bad-request", nil)
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusBadRequest).SendString(body)
}

func RenderLoginPage(ctx *fiber.Ctx, data LoginPageData) error {
	body, err := RenderHTML("login", fiber.Map{
		"siteName": globalVars["siteName"],
		"username": data.Username,
		"errorMsg": data.ErrorMsg,
	})
	if err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/html; charset=utf-8")
	statusCode := fiber.StatusOK
	if data.ErrorMsg != "" {
		statusCode = fiber.StatusUnauthorized
	}
	return ctx.Status(statusCode).SendString(body)
}

func RenderAdminPage(ctx *fiber.Ctx, data AdminPageData) error {
	body, err := RenderHTML("admin", fiber.Map{
		"siteName": globalVars["siteName"],
		"username": data.Username,
		"role":     data.Role,
		"section":  data.Section,
	})
	if err != nil {
		return err
	}
	ctx.Set("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(fiber.StatusOK).SendString(body)
}
