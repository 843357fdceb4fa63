package api

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/UmidYul/21-IDUM/internal/metrics"
	"github.com/UmidYul/21-IDUM/internal/ratelimit"
	"github.com/UmidYul/21-IDUM/internal/telegram"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	notifier telegram.Notifier
	limiter  *ratelimit.Limiter
}

func NewContactHandler(notifier telegram.Notifier, limiter *ratelimit.Limiter) *ContactHandler {
	return &ContactHandler{notifier: notifier, limiter: limiter}
}

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

func formatContactMessage(req contactRequest) string {
	var b strings.Builder
	b.WriteString("<b>Новое сообщение с сайта</b>\n\n")
	fmt.Fprintf(&b, "<b>Имя:</b> %s\n", html.EscapeString(req.Name))
	fmt.Fprintf(&b, "<b>Email:</b> %s\n", html.EscapeString(req.Email))
	if req.Phone != "" {
		fmt.Fprintf(&b, "<b>Телефон:</b> %s\n", html.EscapeString(req.Phone))
	}
	fmt.Fprintf(&b, "\n<b>Сообщение:</b>\n%s", html.EscapeString(req.Message))
	return b.String()
}

func (h *ContactHandler) PostContact(ctx *fiber.Ctx) error {
	var req contactRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return errorResponse(ctx, fiber.StatusBadRequest, "Name, email and message are required")
	}

	if !h.limiter.Allow(ctx.IP()) {
		metrics.ContactMessages.WithLabelValues("throttled").Inc()
		return errorResponse(ctx, fiber.StatusTooManyRequests, "Too many requests, please try again later")
	}

	if !h.notifier.Configured() {
		// keep the form usable on installs without a bot token
		slog.Warn("Contact message dropped: telegram notifier not configured", "from", req.Email)
		metrics.ContactMessages.WithLabelValues("mocked").Inc()
		return ctx.JSON(fiber.Map{"ok": true, "mocked": true})
	}

	if err := h.notifier.SendMessage(ctx.Context(), formatContactMessage(req)); err != nil {
		slog.Error("Could not relay contact message", "error", err)
		metrics.ContactMessages.WithLabelValues("failure").Inc()
		return errorResponse(ctx, fiber.StatusBadGateway, "Failed to deliver message")
	}
	metrics.ContactMessages.WithLabelValues("success").Inc()
	return ctx.JSON(fiber.Map{"ok": true})
}
