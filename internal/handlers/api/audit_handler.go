package api

import (
	"github.com/UmidYul/21-IDUM/internal/audit"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

type AuditHandler struct {
	auditLog *audit.Recorder
}

func NewAuditHandler(auditLog *audit.Recorder) *AuditHandler {
	return &AuditHandler{auditLog: auditLog}
}

// GetRecentLogins serves the admin login journal. Any unparsable or
// out-of-range limit falls back to the clamped defaults.
func (h *AuditHandler) GetRecentLogins(ctx *fiber.Ctx) error {
	limit := cast.ToInt(ctx.Query("limit"))
	logins, err := h.auditLog.RecentLogins(ctx.Context(), limit)
	if err != nil {
		return err
	}
	if logins == nil {
		logins = []model.AuditEntry{}
	}
	return ctx.JSON(fiber.Map{
		"ok":     true,
		"count":  len(logins),
		"logins": logins,
	})
}
