package api

import (
	"time"

	"github.com/UmidYul/21-IDUM/internal/common"
	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/model"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	db        *store.DocumentStore
	version   string
	startedAt time.Time
}

func NewHealthHandler(db *store.DocumentStore, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) GetHealth(ctx *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.db.View(func(doc *model.Document) error { return nil }); err != nil {
		dbStatus = "error"
	}

	status := fiber.StatusOK
	overall := "ok"
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
		overall = "degraded"
	}
	return ctx.Status(status).JSON(fiber.Map{
		"ok":        overall == "ok",
		"status":    overall,
		"version":   h.version,
		"uptime":    common.FormatUptime(time.Since(h.startedAt)),
		"memory":    common.ReadMemoryStats(),
		"db":        dbStatus,
		"timestamp": time.Now().UTC(),
	})
}
