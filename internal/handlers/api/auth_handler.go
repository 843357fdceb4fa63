package api

import (
	"errors"
	"strings"
	"time"

	"github.com/UmidYul/21-IDUM/internal/auth"
	"github.com/UmidYul/21-IDUM/internal/config"
	"github.com/UmidYul/21-IDUM/internal/metrics"
	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *auth.AuthService
	session     config.SessionConfig
	production  bool
}

func NewAuthHandler(authService *auth.AuthService, session config.SessionConfig, production bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
		production:  production,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) setAuthCookie(ctx *fiber.Ctx, token string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.session.MaxAge / time.Second),
		HTTPOnly: true,
		Secure:   h.production || h.session.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearAuthCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.production || h.session.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, fiber.StatusBadRequest, "Username and password are required")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errorResponse(ctx, fiber.StatusBadRequest, "Username and password are required")
	}

	client := auth.ClientInfo{
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}
	token, identity, err := h.authService.Login(ctx.Context(), req.Username, req.Password, client)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return errorResponse(ctx, fiber.StatusUnauthorized, "Invalid username or password")
		}
		return err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	h.setAuthCookie(ctx, token)
	return ctx.JSON(fiber.Map{
		"ok":    true,
		"token": token,
		"user":  identity,
	})
}

// PostLogout always reports success; an unknown or absent token is not
// an error to the client.
func (h *AuthHandler) PostLogout(ctx *fiber.Ctx) error {
	token := sessions.TokenFromRequest(ctx)
	if err := h.authService.Logout(ctx.Context(), token); err != nil {
		return err
	}
	h.clearAuthCookie(ctx)
	return ctx.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) GetMe(ctx *fiber.Ctx) error {
	token := sessions.TokenFromRequest(ctx)
	identity, err := h.authService.Me(ctx.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			return errorResponse(ctx, fiber.StatusUnauthorized, "Unauthorized")
		}
		return err
	}
	return ctx.JSON(fiber.Map{
		"ok":   true,
		"user": identity,
	})
}
