package sessions

import (
	"strings"

	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
	"github.com/gofiber/fiber/v2"
)

const userContextKey = "user"

// TokenFromRequest extracts the auth token carried by a request.
// Header-carried tokens take priority over the cookie so API clients and
// browser sessions can coexist without clobbering each other.
func TokenFromRequest(ctx *fiber.Ctx) string {
	if v := ctx.Get(params.AuthTokenHeader); v != "" {
		return v
	}
	if v := ctx.Get(fiber.HeaderAuthorization); v != "" {
		if rest, ok := cutBearer(v); ok {
			return rest
		}
		return v
	}
	return ctx.Cookies(params.AuthCookieName)
}

func cutBearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):]), true
	}
	return "", false
}

// CurrentUser returns the identity attached by RequireAuth/RequireAuthPage.
func CurrentUser(ctx *fiber.Ctx) (model.Identity, bool) {
	user, ok := ctx.Locals(userContextKey).(model.Identity)
	return user, ok
}

// RequireAuth gates API endpoints: missing, invalid and expired tokens
// all get the same 401 envelope, never a redirect.
func RequireAuth(store *Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := store.Resolve(ctx.Context(), TokenFromRequest(ctx))
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "Unauthorized",
			})
		}
		ctx.Locals(userContextKey, user)
		return ctx.Next()
	}
}

// RequireAuthPage gates HTML pages: unauthenticated browsers are sent to
// the login page instead of receiving an error body.
func RequireAuthPage(store *Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := store.Resolve(ctx.Context(), TokenFromRequest(ctx))
		if err != nil {
			return ctx.Redirect("/admin/login")
		}
		ctx.Locals(userContextKey, user)
		return ctx.Next()
	}
}

// RequireRoles rejects with 403 when the resolved role is outside the
// allowed set. Must run after RequireAuth or RequireAuthPage.
func RequireRoles(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := CurrentUser(ctx)
		if ok {
			for _, role := range roles {
				if user.Role == role {
					return ctx.Next()
				}
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"ok":    false,
			"error": "Forbidden: insufficient role",
		})
	}
}
