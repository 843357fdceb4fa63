package auth

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/UmidYul/21-IDUM/internal/audit"
	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/internal/users"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/UmidYul/21-IDUM/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthService, *store.DocumentStore) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	userService := users.NewUserService(users.NewUserRepository(db))
	sessionStore := sessions.NewStore(db, params.SessionMaxAge)
	return NewAuthService(userService, sessionStore, audit.NewRecorder(db)), db
}

func seedUser(t *testing.T, db *store.DocumentStore, username, password, role string) model.User {
	t.Helper()
	user := model.User{
		ID:        model.GenerateID(),
		Username:  username,
		Password:  password,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	err := db.Update(func(doc *model.Document) error {
		doc.Users = append(doc.Users, user)
		return nil
	})
	require.NoError(t, err)
	return user
}

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestLoginSuccess(t *testing.T) {
	s, db := newTestAuth(t)
	ctx := context.Background()

	hash, err := users.HashPassword("admin123")
	require.NoError(t, err)
	seeded := seedUser(t, db, "admin", hash, model.RoleAdmin)

	token, identity, err := s.Login(ctx, "admin", "admin123", ClientInfo{IP: "::1", UserAgent: "go-test"})
	require.NoError(t, err)
	assert.Regexp(t, hexToken, token)
	assert.Equal(t, seeded.ID, identity.ID)
	assert.Equal(t, model.RoleAdmin, identity.Role)

	got, err := s.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)

	err = db.View(func(doc *model.Document) error {
		require.Len(t, doc.AuditLog, 1)
		assert.Equal(t, "127.0.0.1", doc.AuditLog[0].IP)
		require.NotNil(t, doc.Users[0].LastLoginAt)
		return nil
	})
	require.NoError(t, err)
}

func TestLoginFailureIsGenericAndSideEffectFree(t *testing.T) {
	s, db := newTestAuth(t)
	ctx := context.Background()

	hash, err := users.HashPassword("admin123")
	require.NoError(t, err)
	seedUser(t, db, "admin", hash, model.RoleAdmin)

	_, _, wrongPassword := s.Login(ctx, "admin", "nope", ClientInfo{})
	_, _, unknownUser := s.Login(ctx, "ghost", "nope", ClientInfo{})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(), "failure cause must be indistinguishable")

	err = db.View(func(doc *model.Document) error {
		assert.Empty(t, doc.Sessions)
		assert.Empty(t, doc.AuditLog)
		assert.Nil(t, doc.Users[0].LastLoginAt)
		return nil
	})
	require.NoError(t, err)
}

func TestLoginUpgradesLegacyPlaintext(t *testing.T) {
	s, db := newTestAuth(t)
	ctx := context.Background()

	seedUser(t, db, "admin", "admin123", model.RoleAdmin)

	_, _, err := s.Login(ctx, "admin", "admin123", ClientInfo{})
	require.NoError(t, err)

	err = db.View(func(doc *model.Document) error {
		stored := doc.Users[0].Password
		assert.NotEqual(t, "admin123", stored)
		assert.True(t, strings.HasPrefix(stored, "$2"), "credential upgraded to bcrypt")
		return nil
	})
	require.NoError(t, err)

	// the same password still works, now via hash verification
	_, _, err = s.Login(ctx, "admin", "admin123", ClientInfo{})
	require.NoError(t, err)
}

func TestLogoutThenMe(t *testing.T) {
	s, db := newTestAuth(t)
	ctx := context.Background()

	seedUser(t, db, "admin", "admin123", model.RoleAdmin)
	token, _, err := s.Login(ctx, "admin", "admin123", ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, token))
	_, err = s.Me(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// logging out an unknown or empty token is fine too
	require.NoError(t, s.Logout(ctx, "no-such-token"))
	require.NoError(t, s.Logout(ctx, ""))
}

func TestTwoSessionsForSameUser(t *testing.T) {
	s, db := newTestAuth(t)
	ctx := context.Background()

	seedUser(t, db, "admin", "admin123", model.RoleAdmin)

	first, _, err := s.Login(ctx, "admin", "admin123", ClientInfo{})
	require.NoError(t, err)
	second, _, err := s.Login(ctx, "admin", "admin123", ClientInfo{})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, s.Logout(ctx, first))

	_, err = s.Me(ctx, first)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = s.Me(ctx, second)
	assert.NoError(t, err)
}
