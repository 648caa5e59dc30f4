package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/User133445/memevote-sub000/internal/metrics"
	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/model"
	"github.com/User133445/memevote-sub000/internal/repository"
	"github.com/User133445/memevote-sub000/internal/service"
)

type ContentHandler struct {
	contents *repository.ContentRepo
	cache    *service.CacheService
}

func NewContentHandler(contents *repository.ContentRepo, cache *service.CacheService) *ContentHandler {
	return &ContentHandler{contents: contents, cache: cache}
}

// Get handles GET /api/content/:contentId with Redis cache-aside. Cached
// entries are invalidated by the gate on every accepted vote.
func (h *ContentHandler) Get(c fiber.Ctx) error {
	contentID, errMsg := middleware.ValidateContentID(c.Params("contentId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if cached, err := h.cache.GetContent(c.Context(), contentID); err == nil && cached != nil {
		if metrics.CacheHits != nil {
			metrics.CacheHits.Inc()
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}
	if metrics.CacheMisses != nil {
		metrics.CacheMisses.Inc()
	}

	item, err := h.contents.Find(c.Context(), contentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Content not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup content")
	}

	resp := model.ContentResponse{
		ContentID:     item.ContentID,
		AccountID:     item.AccountID,
		Score:         item.Score,
		Views:         item.Views,
		ViralityScore: item.ViralityScore,
		Status:        string(item.Status),
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
	}

	if err := h.cache.SetContent(c.Context(), contentID, resp); err != nil {
		middleware.Logger.Warn().Err(err).Msg("content cache write failed")
	}

	return c.JSON(resp)
}

// View handles POST /api/content/:contentId/view — a fire-and-forget view
// event feeding the engagement and virality signals.
func (h *ContentHandler) View(c fiber.Ctx) error {
	contentID, errMsg := middleware.ValidateContentID(c.Params("contentId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.contents.IncrementViews(c.Context(), contentID); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record view")
	}

	return c.JSON(fiber.Map{"success": true})
}
