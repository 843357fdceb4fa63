package api

import (
	"errors"
	"strings"

	"github.com/UmidYul/21-IDUM/internal/middlewares/sessions"
	"github.com/UmidYul/21-IDUM/internal/news"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

type NewsHandler struct {
	newsService *news.NewsService
}

func NewNewsHandler(newsService *news.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

type newsRequest struct {
	TitleRu  string  `json:"title_ru"`
	TitleUz  string  `json:"title_uz"`
	BodyRu   string  `json:"body_ru"`
	BodyUz   string  `json:"body_uz"`
	CoverURL *string `json:"coverUrl"`
	Status   string  `json:"status"`
}

// GetPublishedNews is the public listing: published articles only,
// projected into the requested language.
func (h *NewsHandler) GetPublishedNews(ctx *fiber.Ctx) error {
	lang := ctx.Query("lang")
	limit := cast.ToInt(ctx.Query("limit"))
	items, err := h.newsService.ListPublished(ctx.Context(), lang, limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []news.PublicItem{}
	}
	return ctx.JSON(fiber.Map{"ok": true, "news": items})
}

func (h *NewsHandler) GetPublishedNewsItem(ctx *fiber.Ctx) error {
	item, err := h.newsService.GetPublished(ctx.Context(), ctx.Params("id"), ctx.Query("lang"))
	if err != nil {
		if errors.Is(err, news.ErrNewsNotFound) {
			return errorResponse(ctx, fiber.StatusNotFound, "News not found")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true, "item": item})
}

func (h *NewsHandler) GetAllNews(ctx *fiber.Ctx) error {
	items, err := h.newsService.ListAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true, "news": items})
}

func (h *NewsHandler) GetNewsItem(ctx *fiber.Ctx) error {
	item, err := h.newsService.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, news.ErrNewsNotFound) {
			return errorResponse(ctx, fiber.StatusNotFound, "News not found")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true, "item": item})
}

func (h *NewsHandler) PostNews(ctx *fiber.Ctx) error {
	var req newsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.TitleRu) == "" || strings.TrimSpace(req.BodyRu) == "" {
		return errorResponse(ctx, fiber.StatusBadRequest, "Russian title and body are required")
	}

	author, _ := sessions.CurrentUser(ctx)
	coverURL := ""
	if req.CoverURL != nil {
		coverURL = *req.CoverURL
	}
	item, err := h.newsService.Create(ctx.Context(), news.CreateNewsOptions{
		TitleRu:  req.TitleRu,
		TitleUz:  req.TitleUz,
		BodyRu:   req.BodyRu,
		BodyUz:   req.BodyUz,
		CoverURL: coverURL,
		Status:   req.Status,
	}, author)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "item": item})
}

func (h *NewsHandler) PatchNews(ctx *fiber.Ctx) error {
	var req newsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, fiber.StatusBadRequest, "Invalid request body")
	}

	item, err := h.newsService.Update(ctx.Context(), ctx.Params("id"), news.UpdateNewsOptions{
		TitleRu:  req.TitleRu,
		TitleUz:  req.TitleUz,
		BodyRu:   req.BodyRu,
		BodyUz:   req.BodyUz,
		CoverURL: req.CoverURL,
		Status:   req.Status,
	})
	if err != nil {
		if errors.Is(err, news.ErrNewsNotFound) {
			return errorResponse(ctx, fiber.StatusNotFound, "News not found")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true, "item": item})
}

func (h *NewsHandler) DeleteNews(ctx *fiber.Ctx) error {
	if err := h.newsService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		if errors.Is(err, news.ErrNewsNotFound) {
			return errorResponse(ctx, fiber.StatusNotFound, "News not found")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true})
}
