package web

import (
	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/render"
	"github.com/gofiber/fiber/v2"
)

// PagesHandler serves the admin HTML shell. Actual data loading happens
// client-side against the JSON API.
type PagesHandler struct {
	sessionStore *sessions.Store
}

func NewPagesHandler(sessionStore *sessions.Store) *PagesHandler {
	return &PagesHandler{sessionStore: sessionStore}
}

// GetLoginPage shows the login form, or skips straight to the dashboard
// when the browser already carries a live session.
func (h *PagesHandler) GetLoginPage(ctx *fiber.Ctx) error {
	token := sessions.TokenFromRequest(ctx)
	if _, err := h.sessionStore.Resolve(ctx.Context(), token); err == nil {
		return ctx.Redirect("/admin")
	}
	return render.RenderLoginPage(ctx, render.LoginPageData{})
}

func (h *PagesHandler) adminPage(section string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, _ := sessions.CurrentUser(ctx)
		return render.RenderAdminPage(ctx, render.AdminPageData{
			Username: user.Username,
			Role:     user.Role,
			Section:  section,
		})
	}
}

func (h *PagesHandler) GetDashboardPage() fiber.Handler { return h.adminPage("dashboard") }
func (h *PagesHandler) GetNewsPage() fiber.Handler      { return h.adminPage("news") }
func (h *PagesHandler) GetUsersPage() fiber.Handler     { return h.adminPage("users") }
func (h *PagesHandler) GetAuditPage() fiber.Handler     { return h.adminPage("audit") }
