package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/UmidYul/21-IDUM/internal/audit"
	"github.com/UmidYul/21-IDUM/internal/auth"
	"github.com/UmidYul/21-IDUM/internal/config"
	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/internal/users"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

type testEnv struct {
	app          *fiber.App
	userService  *users.UserService
	sessionStore *sessions.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	userService := users.NewUserService(users.NewUserRepository(db))
	sessionStore := sessions.NewStore(db, params.SessionMaxAge)
	auditLog := audit.NewRecorder(db)
	authService := auth.NewAuthService(userService, sessionStore, auditLog)

	sessionCfg := config.SessionConfig{
		MaxAge:     params.SessionMaxAge,
		CookieName: params.AuthCookieName,
	}
	var (
		authHandler  = NewAuthHandler(authService, sessionCfg, false)
		auditHandler = NewAuditHandler(auditLog)
		usersHandler = NewUsersHandler(userService)
	)

	app := fiber.New()
	app.Post("/api/auth/login", authHandler.PostLogin)
	app.Post("/api/auth/logout", authHandler.PostLogout)
	app.Get("/api/auth/me", authHandler.GetMe)
	var (
		adminGroup = app.Group("/api/admin", sessions.RequireAuth(sessionStore))
		adminOnly  = sessions.RequireRoles(model.RoleAdmin)
	)
	adminGroup.Get("/audit/logins", adminOnly, auditHandler.GetRecentLogins)
	adminGroup.Get("/users", adminOnly, usersHandler.GetUsers)
	adminGroup.Post("/users", adminOnly, usersHandler.PostUser)
	adminGroup.Get("/users/:id", adminOnly, usersHandler.GetUser)
	adminGroup.Patch("/users/:id", adminOnly, usersHandler.PatchUser)
	adminGroup.Delete("/users/:id", adminOnly, usersHandler.DeleteUser)

	return &testEnv{app: app, userService: userService, sessionStore: sessionStore}
}

func (env *testEnv) createUser(t *testing.T, username, password, role string) {
	t.Helper()
	_, err := env.userService.CreateUser(context.Background(), users.CreateUserOptions{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
}

type envelope struct {
	OK    bool           `json:"ok"`
	Error string         `json:"error"`
	Token string         `json:"token"`
	User  model.Identity `json:"user"`
	Count int            `json:"count"`
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any, mutate func(*http.Request)) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutate != nil {
		mutate(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestLoginLogoutFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "director", "s3cret", model.RoleAdmin)

	// login
	resp, out := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": "director", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.OK)
	assert.Regexp(t, hexToken, out.Token)
	assert.Equal(t, "director", out.User.Username)
	assert.Equal(t, model.RoleAdmin, out.User.Role)

	var authCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == params.AuthCookieName {
			authCookie = c
		}
	}
	require.NotNil(t, authCookie, "login must set the auth cookie")
	assert.Equal(t, out.Token, authCookie.Value)
	assert.True(t, authCookie.HttpOnly)
	assert.Equal(t, "/", authCookie.Path)
	assert.Equal(t, int(params.SessionMaxAge.Seconds()), authCookie.MaxAge)

	// me via cookie
	resp, out = doJSON(t, env.app, http.MethodGet, "/api/auth/me", nil, func(req *http.Request) {
		req.AddCookie(authCookie)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "director", out.User.Username)

	// logout, then me rejects
	token := authCookie.Value
	resp, out = doJSON(t, env.app, http.MethodPost, "/api/auth/logout", nil, func(req *http.Request) {
		req.Header.Set(params.AuthTokenHeader, token)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.OK)

	resp, out = doJSON(t, env.app, http.MethodGet, "/api/auth/me", nil, func(req *http.Request) {
		req.Header.Set(params.AuthTokenHeader, token)
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, out.OK)
	assert.Equal(t, "Unauthorized", out.Error)
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "director", "s3cret", model.RoleAdmin)

	resp, out := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": "director"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username and password are required", out.Error)

	// same generic message for bad password and unknown user
	_, badPass := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": "director", "password": "wrong"}, nil)
	resp, badUser := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": "ghost", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, badPass.Error, badUser.Error)
}

func TestLogoutWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	resp, out := doJSON(t, env.app, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.OK)
}

func TestAuditEndpointRoleGate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "director", "s3cret", model.RoleAdmin)
	env.createUser(t, "writer", "w0rd", model.RoleEditor)

	_, adminLogin := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": "director", "password": "s3cret"}, nil)
	_, editorLogin := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": "writer", "password": "w0rd"}, nil)

	// unauthenticated
	resp, _ := doJSON(t, env.app, http.MethodGet, "/api/admin/audit/logins", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// editor is authenticated but lacks the role
	resp, out := doJSON(t, env.app, http.MethodGet, "/api/admin/audit/logins", nil, func(req *http.Request) {
		req.Header.Set(params.AuthTokenHeader, editorLogin.Token)
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, out.Error, "Forbidden")

	// admin sees both logins recorded above
	resp, out = doJSON(t, env.app, http.MethodGet, "/api/admin/audit/logins", nil, func(req *http.Request) {
		req.Header.Set(params.AuthTokenHeader, adminLogin.Token)
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, out.Count)
}
