package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UmidYul/21-IDUM/model"
)

type CreateUserOptions struct {
	Username    string
	Password    string
	Role        string
	DisplayName string
	Email       string
	Phone       string
}

type UpdateUserOptions struct {
	Username    string
	Password    string
	Role        string
	DisplayName string
	Email       *string
	Phone       *string
}

// UserService implements admin user management on top of the repository.
type UserService struct {
	userRepo *UserRepository
}

func NewUserService(userRepo *UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	if !model.ValidRole(opts.Role) {
		return nil, ErrInvalidRole
	}

	passwordHash, err := HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	displayName := opts.DisplayName
	if displayName == "" {
		displayName = opts.Username
	}

	user := model.User{
		ID:          model.GenerateID(),
		Username:    opts.Username,
		Password:    passwordHash,
		Role:        opts.Role,
		DisplayName: displayName,
		Email:       opts.Email,
		Phone:       opts.Phone,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.userRepo.Insert(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, opts UpdateUserOptions) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if opts.Username != "" && opts.Username != user.Username {
		if existing, err := s.userRepo.FindByUsername(ctx, opts.Username); err == nil && existing.ID != user.ID {
			return nil, ErrUsernameTaken
		}
		user.Username = opts.Username
	}
	if opts.Password != "" {
		passwordHash, err := HashPassword(opts.Password)
		if err != nil {
			return nil, err
		}
		user.Password = passwordHash
	}
	if opts.Role != "" {
		if !model.ValidRole(opts.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = opts.Role
	}
	if opts.DisplayName != "" {
		user.DisplayName = opts.DisplayName
	}
	if opts.Email != nil {
		user.Email = *opts.Email
	}
	if opts.Phone != nil {
		user.Phone = *opts.Phone
	}

	now := time.Now().UTC()
	user.UpdatedAt = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. The acting admin may not delete their own
// account; that guard is what keeps at least one admin reachable.
func (s *UserService) DeleteUser(ctx context.Context, id string, actor model.Identity) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID == user.ID || actor.Username == user.Username {
		return ErrSelfDelete
	}
	return s.userRepo.Delete(ctx, id)
}

// RecordLogin stamps lastLoginAt and, when rehashed is non-empty,
// replaces a legacy plaintext credential with its bcrypt upgrade. The
// write is best-effort: a failure is logged and the login proceeds, the
// upgrade retried on the next successful legacy login.
func (s *UserService) RecordLogin(ctx context.Context, user *model.User, rehashed string) {
	now := time.Now().UTC()
	user.LastLoginAt = &now
	if rehashed != "" {
		user.Password = rehashed
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		slog.Warn("Could not persist login metadata", "username", user.Username, "error", err)
	}
}

// EnsureDefaultAdmin seeds the bootstrap admin account when no users
// exist yet, so a fresh deployment is never locked out.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if password == "" {
		return errors.New("bootstrap admin password is not configured")
	}
	_, err = s.CreateUser(ctx, CreateUserOptions{
		Username: username,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	slog.Info("Seeded default admin user", "username", username)
	return nil
}
