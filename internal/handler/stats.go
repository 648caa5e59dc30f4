package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/repository"
)

type StatsHandler struct {
	accounts *repository.AccountRepo
	fraud    config.FraudPolicy
}

func NewStatsHandler(accounts *repository.AccountRepo, fraud config.FraudPolicy) *StatsHandler {
	return &StatsHandler{accounts: accounts, fraud: fraud}
}

// Get handles GET /api/stats — aggregate platform statistics.
func (h *StatsHandler) Get(c fiber.Ctx) error {
	stats, err := h.accounts.GetStats(c.Context(), h.fraud.FlagThreshold)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats")
	}
	return c.JSON(stats)
}
