package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UmidYul/21-IDUM/internal/audit"
	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/users"
	"github.com/UmidYul/21-IDUM/model"
)

// ClientInfo is the request context recorded alongside a login.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthService orchestrates login, logout and identity lookup. It keeps
// no state of its own; every call reads fresh from the stores.
type AuthService struct {
	userService  *users.UserService
	sessionStore *sessions.Store
	auditLog     *audit.Recorder
}

func NewAuthService(userService *users.UserService, sessionStore *sessions.Store, auditLog *audit.Recorder) *AuthService {
	return &AuthService{
		userService:  userService,
		sessionStore: sessionStore,
		auditLog:     auditLog,
	}
}

// Login verifies the credentials and, on success, issues a session
// token, stamps lastLoginAt, upgrades a legacy plaintext credential and
// records an audit entry. Any credential failure returns
// ErrInvalidCredentials with no side effects at all.
func (s *AuthService) Login(ctx context.Context, username, password string, client ClientInfo) (string, model.Identity, error) {
	user, err := s.userService.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "", model.Identity{}, ErrInvalidCredentials
		}
		return "", model.Identity{}, err
	}

	ok, legacy := users.VerifyPassword(password, user.Password)
	if !ok {
		return "", model.Identity{}, ErrInvalidCredentials
	}

	token, err := NewSessionToken()
	if err != nil {
		return "", model.Identity{}, err
	}

	identity := user.Identity()
	if _, err := s.sessionStore.Create(ctx, token, identity); err != nil {
		return "", model.Identity{}, err
	}

	// lastLoginAt and the legacy credential upgrade ride on the same
	// best-effort write; a failed upgrade is retried next login
	var rehashed string
	if legacy {
		if rehashed, err = users.HashPassword(password); err != nil {
			slog.Warn("Could not rehash legacy credential", "username", username, "error", err)
			rehashed = ""
		}
	}
	s.userService.RecordLogin(ctx, user, rehashed)

	record := audit.LoginRecord{User: identity, IP: client.IP, UserAgent: client.UserAgent}
	if err := s.auditLog.RecordLogin(ctx, record); err != nil {
		slog.Warn("Could not record login audit entry", "username", username, "error", err)
	}

	return token, identity, nil
}

// Logout deletes the session if present. Always succeeds from the
// caller's point of view.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionStore.Delete(ctx, token)
}

// Me resolves a token to the identity captured when the session was
// issued.
func (s *AuthService) Me(ctx context.Context, token string) (model.Identity, error) {
	identity, err := s.sessionStore.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return model.Identity{}, ErrUnauthenticated
		}
		return model.Identity{}, err
	}
	return identity, nil
}
