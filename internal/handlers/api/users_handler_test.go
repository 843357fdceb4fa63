package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginAs(t *testing.T, env *testEnv, username, password string) string {
	t.Helper()
	resp, out := doJSON(t, env.app, http.MethodPost, "/api/auth/login",
		fiber.Map{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return out.Token
}

func withToken(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(params.AuthTokenHeader, token)
	}
}

func TestUsersCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "director", "s3cret", model.RoleAdmin)
	token := loginAs(t, env, "director", "s3cret")

	// create
	resp, _ := doJSON(t, env.app, http.MethodPost, "/api/admin/users", fiber.Map{
		"username": "writer", "password": "w0rd", "role": model.RoleEditor,
	}, withToken(token))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// duplicate username
	resp, out := doJSON(t, env.app, http.MethodPost, "/api/admin/users", fiber.Map{
		"username": "writer", "password": "other", "role": model.RoleEditor,
	}, withToken(token))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username already taken", out.Error)

	// invalid role
	resp, out = doJSON(t, env.app, http.MethodPost, "/api/admin/users", fiber.Map{
		"username": "third", "password": "pw", "role": "superuser",
	}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid role", out.Error)

	// listing never exposes credentials
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set(params.AuthTokenHeader, token)
	listResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	raw, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	var listing struct {
		Users []map[string]any `json:"users"`
	}
	require.NoError(t, json.Unmarshal(raw, &listing))
	require.Len(t, listing.Users, 2)
}

func TestUsersUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "director", "s3cret", model.RoleAdmin)
	token := loginAs(t, env, "director", "s3cret")

	_, created := doJSON(t, env.app, http.MethodPost, "/api/admin/users", fiber.Map{
		"username": "writer", "password": "w0rd", "role": model.RoleEditor,
	}, withToken(token))
	require.True(t, created.OK)

	// promote the editor
	resp, _ := doJSON(t, env.app, http.MethodPatch, fmt.Sprintf("/api/admin/users/%s", created.User.ID), fiber.Map{
		"role": model.RoleAdmin,
	}, withToken(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// deleting yourself is rejected
	me, err := env.userService.GetUserByUsername(context.Background(), "director")
	require.NoError(t, err)
	resp, out := doJSON(t, env.app, http.MethodDelete, fmt.Sprintf("/api/admin/users/%s", me.ID), nil, withToken(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot delete your own account", out.Error)

	// deleting the other user works, second attempt is a 404
	resp, _ = doJSON(t, env.app, http.MethodDelete, fmt.Sprintf("/api/admin/users/%s", created.User.ID), nil, withToken(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, env.app, http.MethodDelete, fmt.Sprintf("/api/admin/users/%s", created.User.ID), nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
