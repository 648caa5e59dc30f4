package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/service"
)

const defaultTrendingLimit = 25

type TrendingHandler struct {
	trending *service.TrendingService
	cache    *service.CacheService
}

func NewTrendingHandler(trending *service.TrendingService, cache *service.CacheService) *TrendingHandler {
	return &TrendingHandler{trending: trending, cache: cache}
}

// Hot handles GET /api/trending/hot
func (h *TrendingHandler) Hot(c fiber.Ctx) error {
	return h.ranking(c, service.RankingHot)
}

// Rising handles GET /api/trending/rising
func (h *TrendingHandler) Rising(c fiber.Ctx) error {
	return h.ranking(c, service.RankingRising)
}

func (h *TrendingHandler) ranking(c fiber.Ctx, surface string) error {
	limit := fiber.Query[int](c, "limit", defaultTrendingLimit)
	if limit < 1 || limit > 100 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "limit must be between 1 and 100")
	}

	entries, err := h.cache.GetRanking(c.Context(), surface, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read ranking")
	}

	return c.JSON(fiber.Map{
		"surface": surface,
		"entries": entries,
	})
}

// Recompute handles POST /api/trending/recompute — the manual trigger for
// the scheduled recompute. Safe to call at any time: a run fully replaces
// the ranked surfaces or leaves them untouched.
func (h *TrendingHandler) Recompute(c fiber.Ctx) error {
	hot, rising, err := h.trending.Recompute(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Trending recompute failed")
	}

	return c.JSON(fiber.Map{
		"hot":    hot,
		"rising": rising,
	})
}
