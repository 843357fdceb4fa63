package api

import (
	"errors"
	"strings"

	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/users"
	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	userService *users.UserService
}

func NewUsersHandler(userService *users.UserService) *UsersHandler {
	return &UsersHandler{userService: userService}
}

type createUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type updateUserRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
}

func (h *UsersHandler) GetUsers(ctx *fiber.Ctx) error {
	list, err := h.userService.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(list))
	for i := range list {
		out = append(out, newUserResponse(&list[i]))
	}
	return ctx.JSON(fiber.Map{"ok": true, "users": out})
}

func (h *UsersHandler) GetUser(ctx *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return errorResponse(ctx, fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true, "user": newUserResponse(user)})
}

func (h *UsersHandler) PostUser(ctx *fiber.Ctx) error {
	var req createUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return errorResponse(ctx, fiber.StatusBadRequest, "Username and password are required")
	}

	user, err := h.userService.CreateUser(ctx.Context(), users.CreateUserOptions{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidRole):
			return errorResponse(ctx, fiber.StatusBadRequest, "Invalid role")
		case errors.Is(err, users.ErrUsernameTaken):
			return errorResponse(ctx, fiber.StatusConflict, "Username already taken")
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "user": newUserResponse(user)})
}

func (h *UsersHandler) PatchUser(ctx *fiber.Ctx) error {
	var req updateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(ctx.Context(), ctx.Params("id"), users.UpdateUserOptions{
		Username:    strings.TrimSpace(req.Username),
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			return errorResponse(ctx, fiber.StatusNotFound, "User not found")
		case errors.Is(err, users.ErrInvalidRole):
			return errorResponse(ctx, fiber.StatusBadRequest, "Invalid role")
		case errors.Is(err, users.ErrUsernameTaken):
			return errorResponse(ctx, fiber.StatusConflict, "Username already taken")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true, "user": newUserResponse(user)})
}

func (h *UsersHandler) DeleteUser(ctx *fiber.Ctx) error {
	actor, _ := sessions.CurrentUser(ctx)
	err := h.userService.DeleteUser(ctx.Context(), ctx.Params("id"), actor)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			return errorResponse(ctx, fiber.StatusNotFound, "User not found")
		case errors.Is(err, users.ErrSelfDelete):
			return errorResponse(ctx, fiber.StatusBadRequest, "You cannot delete your own account")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true})
}
